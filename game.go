package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/starchase/chase"
	"github.com/milk9111/starchase/config"
	"github.com/milk9111/starchase/logging"
	"github.com/milk9111/starchase/prefabs"
	"github.com/milk9111/starchase/prefs"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
)

// Game hosts the chase in a window: it samples the wall clock every update,
// ticks the sequence until it completes and draws the latest frame.
type Game struct {
	cfg   config.Config
	log   zerolog.Logger
	trace zerolog.Logger

	seq      *chase.Sequence
	clock    *chase.WallClock
	frame    chase.Frame
	paused   bool
	renderer *Renderer
	ui       *ebitenui.UI

	watcher   *prefabs.Watcher
	clipboard bool

	prefs        *prefs.Store
	windowWidth  int
	windowHeight int
}

func NewGame(cfg config.Config, spec *prefabs.SequenceSpec, store *prefs.Store, log zerolog.Logger) (*Game, error) {
	g := &Game{
		cfg:   cfg,
		prefs: store,
		log:   log.With().Str("component", "game").Logger(),
		trace: logging.Sampled(log),
	}
	if err := g.load(spec); err != nil {
		return nil, err
	}
	// The clock starts on the first Update, after the window is up.
	g.clock = chase.NewWallClock(time.Now, 1/float64(cfg.Window.TPS))
	g.ui = NewReplayUI(g.Replay)

	if cfg.Debug {
		g.startWatcher()
		if err := clipboard.Init(); err != nil {
			g.log.Warn().Err(err).Msg("clipboard unavailable, C will not copy frames")
		} else {
			g.clipboard = true
		}
	}
	return g, nil
}

// load builds a fresh sequence and renderer from spec.
func (g *Game) load(spec *prefabs.SequenceSpec) error {
	opts, err := spec.Options(g.log)
	if err != nil {
		return err
	}
	g.seq = chase.NewSequence(opts)
	g.seq.OnComplete(func(f chase.Frame) {
		g.paused = true
		g.log.Info().Float64("elapsed", f.Elapsed).Int("ticks", f.Tick).Msg("chase complete")
	})
	g.renderer = NewRenderer(spec.Scene, float64(g.cfg.Window.Width), float64(g.cfg.Window.Height), g.cfg.Debug)
	g.frame = chase.Frame{}
	g.paused = false
	return nil
}

func (g *Game) startWatcher() {
	dir := "prefabs"
	if g.cfg.Tuning != "" {
		dir = filepath.Dir(g.cfg.Tuning)
	}
	if _, err := os.Stat(dir); err != nil {
		g.log.Debug().Str("dir", dir).Msg("no tuning directory to watch")
		return
	}
	w, err := prefabs.NewWatcher(dir)
	if err != nil {
		g.log.Warn().Err(err).Str("dir", dir).Msg("hot reload disabled")
		return
	}
	g.watcher = w
	g.log.Info().Str("dir", dir).Msg("watching tuning files")
}

// Replay restarts the chase from t=0.
func (g *Game) Replay() {
	g.seq.Reset()
	g.clock.Restart()
	g.renderer.Reset()
	g.frame = chase.Frame{}
	g.paused = false
	if err := g.prefs.Update(func(p *prefs.Preferences) { p.Replays++ }); err != nil {
		g.log.Warn().Err(err).Msg("replay count not saved")
	}
	g.log.Info().Int("replays", g.prefs.Get().Replays).Msg("replay")
}

func (g *Game) toggleFullscreen() {
	full := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(full)
	if err := g.prefs.Update(func(p *prefs.Preferences) { p.Fullscreen = full }); err != nil {
		g.log.Warn().Err(err).Msg("fullscreen preference not saved")
	}
}

func (g *Game) reload(path string) {
	spec, err := prefabs.LoadSequence(g.cfg.Tuning)
	if err != nil {
		g.log.Error().Err(err).Str("file", path).Msg("reload failed, keeping current tuning")
		return
	}
	if err := g.load(spec); err != nil {
		g.log.Error().Err(err).Str("file", path).Msg("reload failed, keeping current tuning")
		return
	}
	g.clock.Restart()
	g.log.Info().Str("file", path).Msg("tuning reloaded")
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn().Err(err).Msg("tuning watcher")
			}
		default:
			return
		}
	}
}

func (g *Game) copyFrame() {
	data, err := json.MarshalIndent(g.frame, "", "  ")
	if err != nil {
		g.log.Error().Err(err).Msg("encode frame")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.log.Info().Int("tick", g.frame.Tick).Msg("frame copied to clipboard")
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Replay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.toggleFullscreen()
	}
	if g.clipboard && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyFrame()
	}
	g.pollWatcher()
	g.ui.Update()

	if g.paused {
		return nil
	}
	elapsed, delta := g.clock.Sample()
	g.frame = g.seq.Tick(elapsed, delta)
	g.renderer.Observe(g.frame)
	g.trace.Trace().
		Int("tick", g.frame.Tick).
		Str("shot", g.frame.Shot.String()).
		Dur("cost", g.frame.Cost).
		Msg("tick")
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.frame)
	g.ui.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if !ebiten.IsFullscreen() {
		g.windowWidth, g.windowHeight = int(outsideWidth), int(outsideHeight)
	}
	return float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() error {
	if g.windowWidth > 0 && g.windowHeight > 0 {
		err := g.prefs.Update(func(p *prefs.Preferences) {
			p.Width, p.Height = g.windowWidth, g.windowHeight
		})
		if err != nil {
			g.log.Warn().Err(err).Msg("window size not saved")
		}
	}
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

