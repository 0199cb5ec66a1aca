package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestManager(t *testing.T) *gdata.Manager {
	t.Helper()
	appName := fmt.Sprintf("starchase_test_%d", time.Now().UnixNano())
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			_ = os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	return m
}

func TestMemoryStore(t *testing.T) {
	s, err := NewStore(nil, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, s.Persistent())

	w, h := s.WindowSize(1280, 720)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	require.NoError(t, s.Update(func(p *Preferences) { p.Replays++ }))
	assert.Equal(t, 1, s.Get().Replays)

	require.NoError(t, s.Load())
	assert.Equal(t, Preferences{}, s.Get())
}

func TestWindowSizeNeedsBothDimensions(t *testing.T) {
	s, err := NewStore(nil, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Update(func(p *Preferences) { p.Width = 800 }))

	w, h := s.WindowSize(1280, 720)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestPersistentRoundTrip(t *testing.T) {
	m := openTestManager(t)

	s, err := NewStore(m, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, s.Persistent())
	require.NoError(t, s.Update(func(p *Preferences) {
		p.Width, p.Height = 1600, 900
		p.Fullscreen = true
		p.Replays = 3
	}))

	reopened, err := NewStore(m, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Preferences{Width: 1600, Height: 900, Fullscreen: true, Replays: 3}, reopened.Get())

	w, h := reopened.WindowSize(1280, 720)
	assert.Equal(t, 1600, w)
	assert.Equal(t, 900, h)
}

func TestCorruptPreferencesFallBack(t *testing.T) {
	m := openTestManager(t)
	require.NoError(t, m.SaveObjectProp(windowObject, windowProperty, []byte("width: [")))

	s, err := NewStore(m, zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, Preferences{}, s.Get())
}
