package google

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeTokenServer is a minimal OAuth2 token endpoint.
type fakeTokenServer struct {
	*httptest.Server
	hits     atomic.Int32
	lastForm atomic.Value
	reject   atomic.Bool
	down     atomic.Bool
}

func newFakeTokenServer(t *testing.T) *fakeTokenServer {
	t.Helper()
	f := &fakeTokenServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.lastForm.Store(r.PostForm)

		w.Header().Set("Content-Type", "application/json")
		if f.down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "temporarily_unavailable",
				"error_description": "The service is currently unavailable.",
			})
			return
		}
		if f.reject.Load() {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "Token has been expired or revoked.",
			})
			return
		}

		resp := map[string]any{
			"token_type": "Bearer",
			"expires_in": 3600,
		}
		switch r.PostForm.Get("grant_type") {
		case "refresh_token":
			resp["access_token"] = "refreshed-access"
		case "authorization_code":
			resp["access_token"] = "exchanged-access"
			resp["refresh_token"] = "exchanged-refresh"
		default:
			http.Error(w, "unsupported grant", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeTokenServer) tokenURL() string {
	return f.URL + "/token"
}

func writeSecrets(t *testing.T, dir, tokenURL string) string {
	t.Helper()
	path := filepath.Join(dir, "client_secret.json")
	secrets := map[string]any{
		"installed": map[string]any{
			"client_id":     "test-client.apps.googleusercontent.com",
			"client_secret": "test-secret",
			"auth_uri":      "https://accounts.example.com/o/oauth2/auth",
			"token_uri":     tokenURL,
			"redirect_uris": []string{"http://localhost"},
		},
	}
	data, err := json.Marshal(secrets)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func testCredential(tokenURL string, expiry time.Time) *Credential {
	return &Credential{
		Type:         AuthorizedUserType,
		ClientID:     "test-client.apps.googleusercontent.com",
		ClientSecret: "test-secret",
		TokenURI:     tokenURL,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}
}

// memStore is an in-memory Store that counts saves.
type memStore struct {
	cred    *Credential
	loadErr error
	saves   int
}

func (s *memStore) Load() (*Credential, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.cred == nil {
		return nil, ErrNoCredential
	}
	c := *s.cred
	return &c, nil
}

func (s *memStore) Save(c *Credential) error {
	s.saves++
	cp := *c
	s.cred = &cp
	return nil
}
