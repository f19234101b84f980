package google

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/google"
)

func TestLoadClientSecrets(t *testing.T) {
	path := writeSecrets(t, t.TempDir(), "https://oauth2.example.com/token")

	conf, err := LoadClientSecrets(path, "scope-a", "scope-b")
	require.NoError(t, err)

	assert.Equal(t, "test-client.apps.googleusercontent.com", conf.ClientID)
	assert.Equal(t, "test-secret", conf.ClientSecret)
	assert.Equal(t, "https://oauth2.example.com/token", conf.Endpoint.TokenURL)
	assert.Equal(t, "https://accounts.example.com/o/oauth2/auth", conf.Endpoint.AuthURL)
	assert.Equal(t, []string{"scope-a", "scope-b"}, conf.Scopes)
}

func TestLoadClientSecrets_DefaultsEndpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secret.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"web":{"client_id":"c","client_secret":"s","redirect_uris":["http://localhost:5173/"]}}`), 0600))

	conf, err := LoadClientSecrets(path)
	require.NoError(t, err)
	assert.Equal(t, google.Endpoint.AuthURL, conf.Endpoint.AuthURL)
	assert.Equal(t, google.Endpoint.TokenURL, conf.Endpoint.TokenURL)
}

func TestLoadClientSecrets_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"not json", ptr("client_id=abc")},
		{"no application section", ptr(`{"other":{}}`)},
		{"no redirect uris", ptr(`{"installed":{"client_id":"c"}}`)},
		{"no client id", ptr(`{"installed":{"redirect_uris":["http://localhost"]}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "client_secret.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0600))
			}

			conf, err := LoadClientSecrets(path)
			assert.Nil(t, conf)
			assert.ErrorIs(t, err, ErrInvalidSecrets)
		})
	}
}

func ptr(s string) *string { return &s }
