package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[database]
host = "localhost"
port = 5432
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9, cfg.Booking.OpeningHour)
	assert.Equal(t, 21, cfg.Booking.ClosingHour)
	assert.Equal(t, 30, cfg.Booking.SlotIntervalMinutes)
	assert.Equal(t, 120, cfg.Booking.MinLeadTimeMinutes)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_ValidatesBookingSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"closing before opening", `
[booking]
opening_hour = 20
closing_hour = 10
`},
		{"slot interval too small", `
[booking]
slot_interval_minutes = 3
`},
		{"slot interval too large", `
[booking]
slot_interval_minutes = 500
`},
		{"lead time above week", `
[booking]
min_lead_time_minutes = 20000
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
