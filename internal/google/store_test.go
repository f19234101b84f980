package google

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token.json"))

	cred, err := store.Load()
	assert.Nil(t, cred)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")
	store := NewFileStore(path)
	assert.Equal(t, path, store.Path())

	expiry := time.Date(2025, 3, 26, 10, 0, 0, 0, time.UTC)
	want := testCredential("https://oauth2.example.com/token", expiry)
	require.NoError(t, store.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want.ClientID, got.ClientID)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.Equal(t, want.Scopes, got.Scopes)
	assert.True(t, want.Expiry.Equal(got.Expiry))
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)

	first := testCredential("https://t", time.Time{})
	require.NoError(t, store.Save(first))

	second := testCredential("https://t", time.Time{})
	second.AccessToken = "second-access"
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second-access", got.AccessToken)

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "\x80\x04\x95pickle"},
		{"truncated", `{"type":"authorized_user","access_token":`},
		{"no tokens", `{"type":"authorized_user","client_id":"c"}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			cred, err := NewFileStore(path).Load()
			assert.Nil(t, cred)
			assert.ErrorIs(t, err, ErrCorruptCredential)
			assert.NotErrorIs(t, err, ErrNoCredential)
		})
	}
}
