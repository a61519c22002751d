package memory

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/phenrril/medwear/internal/domain"
)

// TokenStore keeps the token pair for the life of the process.
type TokenStore struct {
	mu  sync.Mutex
	tok *oauth2.Token
}

func NewTokenStore() *TokenStore { return &TokenStore{} }

func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return nil, domain.ErrNotFound
	}
	t := *s.tok
	return &t, nil
}

func (s *TokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *tok
	s.tok = &t
	return nil
}

func (s *TokenStore) Clear() error {
	s.mu.Lock()
	s.tok = nil
	s.mu.Unlock()
	return nil
}
