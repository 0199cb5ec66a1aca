package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/starchase/config"
	"github.com/milk9111/starchase/logging"
	"github.com/milk9111/starchase/prefabs"
	"github.com/milk9111/starchase/prefs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

var (
	configDir string

	cfg       config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer = nopCloser{}
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		logger.Error().Err(err).Msg("starchase failed")
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starchase",
		Short: "A twenty second procedural spacecraft chase",
		Long: `Plays a scripted chase between two spacecraft under an automated
camera. The window shows it in real time; export writes it frame by frame.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runPlay,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config", "", "directory containing starchase.yaml (default is the working directory)")
	flags.String("log-level", "info", "DEBUG, INFO, WARN, ERROR or TRACE")
	flags.String("log-file", "", "also write logs to this file")
	flags.Bool("debug", false, "enable debug overlay, hot reload and clipboard copy")
	flags.String("tuning", "", "sequence tuning file (default is the embedded prefabs/sequence.yaml)")
	bindFlags(rootCmd, map[string]string{
		"logLevel": "log-level",
		"logFile":  "log-file",
		"debug":    "debug",
		"tuning":   "tuning",
	})

	rootCmd.AddCommand(newExportCmd())
	return rootCmd
}

// bindFlags ties viper keys to persistent or local flags of cmd.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = cmd.Flags().Lookup(name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("bind --%s: %v", name, err))
		}
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	var err error
	cfg, err = config.Current()
	if err != nil {
		return err
	}

	log, closer, err := logging.Setup(cfg.LogLevel, cfg.LogFile, os.Stdout)
	if err != nil {
		return err
	}
	logger, logCloser = log, closer
	if used := config.UsedFile(); used != "" {
		logger.Info().Str("file", used).Msg("config loaded")
	} else {
		logger.Debug().Msg("no config file, using defaults")
	}
	return nil
}

func loadTuning() (*prefabs.SequenceSpec, error) {
	spec, err := prefabs.LoadSequence(cfg.Tuning)
	if err != nil {
		return nil, err
	}
	source := cfg.Tuning
	if source == "" {
		source = prefabs.SequenceFile
	}
	logger.Debug().Str("tuning", source).Msg("sequence tuning loaded")
	return spec, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	spec, err := loadTuning()
	if err != nil {
		return err
	}

	store := prefs.Open(prefs.AppName, logger)
	width, height := store.WindowSize(cfg.Window.Width, cfg.Window.Height)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetFullscreen(store.Get().Fullscreen)
	ebiten.SetTPS(cfg.Window.TPS)

	game, err := NewGame(cfg, spec, store, logger)
	if err != nil {
		return err
	}
	defer game.Close()

	return ebiten.RunGame(game)
}
