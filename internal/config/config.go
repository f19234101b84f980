package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	calendar "google.golang.org/api/calendar/v3"
)

// AppName names the XDG data subdirectory.
const AppName = "meetlink"

// Defaults.
const (
	DefaultClientSecretsFile = "client_secret.json"
	DefaultTokenFileName     = "token.json"
	DefaultRedirectPort      = 5173
	DefaultCalendarID        = "primary"
)

// Config is passed to both the credential manager and the event creator.
type Config struct {
	// ClientSecretsFile is the Google OAuth client secrets JSON. It is only
	// read by the interactive authorization flow.
	ClientSecretsFile string

	// TokenFile is where the credential is persisted.
	TokenFile string

	// RedirectPort is the loopback port used as OAuth redirect target. It must
	// match a redirect URI registered for the client. 0 picks a free port.
	RedirectPort int

	// Scopes requested during authorization.
	Scopes []string

	// CalendarID is the calendar the event is inserted into.
	CalendarID string

	// OpenBrowser launches the system browser on the consent URL.
	OpenBrowser bool

	// AuthTimeout bounds the interactive flow. Zero means no limit.
	AuthTimeout time.Duration

	// CalendarEndpoint overrides the Calendar API base URL, e.g. for a proxy.
	// Empty uses the Google default.
	CalendarEndpoint string
}

// DefaultConfig returns a Config with defaults overridden by environment variables.
func DefaultConfig() Config {
	return Config{
		ClientSecretsFile: getEnvOrDefault("MEETLINK_CLIENT_SECRETS", DefaultClientSecretsFile),
		TokenFile:         getEnvOrDefault("MEETLINK_TOKEN_FILE", DefaultTokenFile()),
		RedirectPort:      getEnvIntOrDefault("MEETLINK_REDIRECT_PORT", DefaultRedirectPort),
		Scopes:            []string{calendar.CalendarEventsScope},
		CalendarID:        getEnvOrDefault("MEETLINK_CALENDAR_ID", DefaultCalendarID),
		OpenBrowser:       getEnvBoolOrDefault("MEETLINK_OPEN_BROWSER", true),
		AuthTimeout:       getEnvDurationOrDefault("MEETLINK_AUTH_TIMEOUT", 0),
		CalendarEndpoint:  os.Getenv("MEETLINK_CALENDAR_ENDPOINT"),
	}
}

// DefaultTokenFile returns the XDG-compliant credential path.
func DefaultTokenFile() string {
	return filepath.Join(xdg.DataHome, AppName, DefaultTokenFileName)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.ClientSecretsFile == "" {
		return fmt.Errorf("client secrets file must be set")
	}
	if c.TokenFile == "" {
		return fmt.Errorf("token file must be set")
	}
	if c.RedirectPort < 0 || c.RedirectPort > 65535 {
		return fmt.Errorf("redirect port must be between 0 and 65535, got %d", c.RedirectPort)
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("at least one OAuth scope is required")
	}
	if c.CalendarID == "" {
		return fmt.Errorf("calendar ID must be set")
	}
	if c.AuthTimeout < 0 {
		return fmt.Errorf("auth timeout must not be negative, got %s", c.AuthTimeout)
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
