// Package prefs remembers window settings between launches.
package prefs

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const AppName = "starchase"

const (
	windowObject   = "window"
	windowProperty = "prefs"
)

// Preferences are host settings only; sequence state is never stored.
type Preferences struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	Replays    int  `yaml:"replays"`
}

// Store keeps Preferences in gdata storage. A nil manager keeps them in
// memory for the lifetime of the process.
type Store struct {
	manager *gdata.Manager
	prefs   Preferences
	log     zerolog.Logger
}

// Open creates the gdata manager for appName. Failure is logged and yields a
// memory-only store.
func Open(appName string, log zerolog.Logger) *Store {
	log = log.With().Str("component", "prefs").Logger()
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn().Err(err).Msg("preferences will not persist")
		m = nil
	}
	s, err := NewStore(m, log)
	if err != nil {
		log.Warn().Err(err).Msg("stored preferences ignored")
	}
	return s
}

// NewStore loads any saved preferences from m. The returned store is usable
// even when err is non-nil.
func NewStore(m *gdata.Manager, log zerolog.Logger) (*Store, error) {
	s := &Store{manager: m, log: log}
	return s, s.Load()
}

func (s *Store) Persistent() bool {
	return s.manager != nil
}

func (s *Store) Load() error {
	s.prefs = Preferences{}
	if s.manager == nil || !s.manager.ObjectPropExists(windowObject, windowProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(windowObject, windowProperty)
	if err != nil {
		return fmt.Errorf("prefs: load: %w", err)
	}
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("prefs: decode: %w", err)
	}
	s.prefs = p
	return nil
}

func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := s.manager.SaveObjectProp(windowObject, windowProperty, data); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	s.log.Debug().Int("width", s.prefs.Width).Int("height", s.prefs.Height).Msg("preferences saved")
	return nil
}

func (s *Store) Get() Preferences {
	return s.prefs
}

// Update applies fn and saves the result.
func (s *Store) Update(fn func(p *Preferences)) error {
	fn(&s.prefs)
	return s.Save()
}

// WindowSize returns the remembered size, or the fallback when none was saved.
func (s *Store) WindowSize(width, height int) (int, int) {
	if s.prefs.Width > 0 && s.prefs.Height > 0 {
		return s.prefs.Width, s.prefs.Height
	}
	return width, height
}
