package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	inc, err := s.Rounding.ParseIncrement()
	require.NoError(t, err)
	assert.Equal(t, "1", inc.String())

	timeout, err := s.API.ParseTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	assert.True(t, s.Journal.Enabled)
	assert.NotEmpty(t, s.Journal.DBPath)
	assert.NotEmpty(t, s.Session.CachePath)
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	s := DefaultSettings()
	s.API.BaseURL = "https://sandbox.example.com"
	s.Rounding.Increment = "0.0001"
	s.Journal.Enabled = false
	require.NoError(t, s.SaveToFile(path))

	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example.com", got.API.BaseURL)

	inc, err := got.Rounding.ParseIncrement()
	require.NoError(t, err)
	assert.Equal(t, "0.0001", inc.String())
	assert.False(t, got.Journal.Enabled)
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rounding:\n  increment: \"0.5\"\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	inc, err := s.Rounding.ParseIncrement()
	require.NoError(t, err)
	assert.Equal(t, "0.5", inc.String())
	// Untouched sections keep their defaults.
	assert.Equal(t, "30s", s.API.Timeout)
	assert.True(t, s.Journal.Enabled)
}

func TestSettingsValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"bad timeout", func(s *Settings) { s.API.Timeout = "soon" }},
		{"bad increment", func(s *Settings) { s.Rounding.Increment = "zero" }},
		{"negative increment", func(s *Settings) { s.Rounding.Increment = "-1" }},
		{"journal without path", func(s *Settings) { s.Journal.Enabled = true; s.Journal.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}
