package google

import (
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// LoadClientSecrets reads a client secrets file as downloaded from the Google
// Cloud console ("installed" or "web" application) and returns the OAuth
// client config for the given scopes.
func LoadClientSecrets(path string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read %s: %w", ErrInvalidSecrets, path, err)
	}

	conf, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse %s: %w", ErrInvalidSecrets, path, err)
	}
	if conf.ClientID == "" {
		return nil, fmt.Errorf("%w: %s has no client_id", ErrInvalidSecrets, path)
	}

	if conf.Endpoint.AuthURL == "" {
		conf.Endpoint.AuthURL = google.Endpoint.AuthURL
	}
	if conf.Endpoint.TokenURL == "" {
		conf.Endpoint.TokenURL = google.Endpoint.TokenURL
	}

	return conf, nil
}
