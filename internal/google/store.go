package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists a single Credential.
type Store interface {
	// Load returns ErrNoCredential when nothing is stored and an error
	// wrapping ErrCorruptCredential when the stored data cannot be decoded.
	Load() (*Credential, error)

	// Save replaces the stored credential.
	Save(*Credential) error
}

// FileStore keeps the credential as JSON in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the credential file.
func (s *FileStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCredential, s.path, err)
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s: no tokens present", ErrCorruptCredential, s.path)
	}

	return &cred, nil
}

// Save writes the credential with owner-only permissions. The file is
// replaced atomically so a crash never leaves a half-written credential.
func (s *FileStore) Save(cred *Credential) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".token-*.json")
	if err != nil {
		return fmt.Errorf("failed to create credential file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cred); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to set credential file mode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
