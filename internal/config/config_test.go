package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
)

func TestDefaultConfig(t *testing.T) {
	for _, key := range []string{
		"MEETLINK_CLIENT_SECRETS", "MEETLINK_TOKEN_FILE", "MEETLINK_REDIRECT_PORT",
		"MEETLINK_CALENDAR_ID", "MEETLINK_OPEN_BROWSER", "MEETLINK_AUTH_TIMEOUT",
		"MEETLINK_CALENDAR_ENDPOINT",
	} {
		t.Setenv(key, "")
	}

	cfg := DefaultConfig()

	assert.Equal(t, DefaultClientSecretsFile, cfg.ClientSecretsFile)
	assert.Equal(t, DefaultTokenFile(), cfg.TokenFile)
	assert.Equal(t, 5173, cfg.RedirectPort)
	assert.Equal(t, []string{calendar.CalendarEventsScope}, cfg.Scopes)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.True(t, cfg.OpenBrowser)
	assert.Zero(t, cfg.AuthTimeout)
	assert.Empty(t, cfg.CalendarEndpoint)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("MEETLINK_CLIENT_SECRETS", "/etc/meetlink/secrets.json")
	t.Setenv("MEETLINK_TOKEN_FILE", "/tmp/tok.json")
	t.Setenv("MEETLINK_REDIRECT_PORT", "8085")
	t.Setenv("MEETLINK_CALENDAR_ID", "team@group.calendar.google.com")
	t.Setenv("MEETLINK_OPEN_BROWSER", "false")
	t.Setenv("MEETLINK_AUTH_TIMEOUT", "2m")
	t.Setenv("MEETLINK_CALENDAR_ENDPOINT", "https://calendar-proxy.example.com/")

	cfg := DefaultConfig()
	assert.Equal(t, "https://calendar-proxy.example.com/", cfg.CalendarEndpoint)

	assert.Equal(t, "/etc/meetlink/secrets.json", cfg.ClientSecretsFile)
	assert.Equal(t, "/tmp/tok.json", cfg.TokenFile)
	assert.Equal(t, 8085, cfg.RedirectPort)
	assert.Equal(t, "team@group.calendar.google.com", cfg.CalendarID)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, 2*time.Minute, cfg.AuthTimeout)
}

func TestDefaultConfig_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("MEETLINK_REDIRECT_PORT", "not-a-port")
	t.Setenv("MEETLINK_OPEN_BROWSER", "maybe")
	t.Setenv("MEETLINK_AUTH_TIMEOUT", "soon")

	cfg := DefaultConfig()

	assert.Equal(t, DefaultRedirectPort, cfg.RedirectPort)
	assert.True(t, cfg.OpenBrowser)
	assert.Zero(t, cfg.AuthTimeout)
}

func TestDefaultTokenFile(t *testing.T) {
	got := DefaultTokenFile()
	assert.Equal(t, DefaultTokenFileName, filepath.Base(got))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(got)))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ClientSecretsFile: "client_secret.json",
			TokenFile:         "token.json",
			RedirectPort:      5173,
			Scopes:            []string{calendar.CalendarEventsScope},
			CalendarID:        "primary",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"ephemeral port", func(c *Config) { c.RedirectPort = 0 }, false},
		{"missing secrets", func(c *Config) { c.ClientSecretsFile = "" }, true},
		{"missing token file", func(c *Config) { c.TokenFile = "" }, true},
		{"negative port", func(c *Config) { c.RedirectPort = -1 }, true},
		{"port too large", func(c *Config) { c.RedirectPort = 70000 }, true},
		{"no scopes", func(c *Config) { c.Scopes = nil }, true},
		{"no calendar", func(c *Config) { c.CalendarID = "" }, true},
		{"negative timeout", func(c *Config) { c.AuthTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MEETLINK_CALENDAR_ID=from-dotenv\nMEETLINK_REDIRECT_PORT=9999\n"), 0600))

	t.Setenv("MEETLINK_CALENDAR_ID", "")
	require.NoError(t, os.Unsetenv("MEETLINK_CALENDAR_ID"))
	t.Setenv("MEETLINK_REDIRECT_PORT", "7000")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))

	assert.Equal(t, "from-dotenv", os.Getenv("MEETLINK_CALENDAR_ID"))
	// Existing variables are not overridden.
	assert.Equal(t, "7000", os.Getenv("MEETLINK_REDIRECT_PORT"))
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MEETLINK-BAD=1\n"), 0600))

	assert.Error(t, LoadDotEnv(envFile))
}
