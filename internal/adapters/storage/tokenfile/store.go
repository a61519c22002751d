package tokenfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/phenrril/medwear/internal/domain"
)

// Store persists the token pair as JSON in a single file readable only by
// the owner.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read token file %s", s.path)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, errors.Wrap(err, "decode token file")
	}
	if tok.AccessToken == "" {
		return nil, domain.ErrNotFound
	}
	return &tok, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the old one.
func (s *Store) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "encode token")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	f, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return errors.Wrap(err, "create temp token file")
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "write token file")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "close token file")
	}
	if err := os.Chmod(tmp, 0o600); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "chmod token file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replace token file")
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove token file")
	}
	return nil
}
