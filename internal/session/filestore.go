package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the CLI session as a single JSON file with the sealed
// payload and its key-derivation salt. The payload inside the seal is the
// plain {"accessToken": ..., "user": ...} document.
type FileStore struct {
	path       string
	passphrase string
}

// NewFileStore builds a file-backed persister at path. The passphrase is
// required; the encryption key is derived from it per file.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session: store path is empty")
	}
	if passphrase == "" {
		return nil, errors.New("session: store passphrase is required")
	}
	return &FileStore{path: path, passphrase: passphrase}, nil
}

// DefaultPath returns the conventional CLI session location under the
// user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "holidaze", "session.json"), nil
}

type fileEnvelope struct {
	Salt    string `json:"salt"`
	Payload string `json:"payload"`
}

func (f *FileStore) Save(s Session) error {
	plain, err := json.Marshal(s)
	if err != nil {
		return err
	}
	salt, err := newSalt()
	if err != nil {
		return err
	}
	key, err := deriveKey(f.passphrase, salt)
	if err != nil {
		return err
	}
	a, err := newAEAD(key)
	if err != nil {
		return err
	}
	sealed, err := a.seal(plain)
	if err != nil {
		return err
	}
	env, err := json.Marshal(fileEnvelope{
		Salt:    base64.RawStdEncoding.EncodeToString(salt),
		Payload: sealed,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, env, 0o600)
}

func (f *FileStore) Load() (Session, bool, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Session{}, false, fmt.Errorf("session: corrupt store file: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(env.Salt)
	if err != nil {
		return Session{}, false, fmt.Errorf("session: corrupt store file: %w", err)
	}
	key, err := deriveKey(f.passphrase, salt)
	if err != nil {
		return Session{}, false, err
	}
	a, err := newAEAD(key)
	if err != nil {
		return Session{}, false, err
	}
	plain, err := a.open(env.Payload)
	if err != nil {
		return Session{}, false, err
	}

	var s Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return Session{}, false, fmt.Errorf("session: corrupt store payload: %w", err)
	}
	return s, s.Authenticated(), nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
