package usecase

import (
	"bytes"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/domain"
)

// Notifier is told the name of a slice after every state change.
type Notifier func(slice string)

func (n Notifier) send(slice string) {
	if n != nil {
		n(slice)
	}
}

// store guards one slice's state and reports every mutation.
type store[S any] struct {
	mu     sync.RWMutex
	name   string
	state  S
	notify Notifier
}

func (s *store[S]) update(fn func(st *S)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify.send(s.name)
}

func (s *store[S]) read(fn func(st *S)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// lifecycle holds the reducers of one remote operation.
type lifecycle[S, T any] struct {
	op        string
	fallback  string
	pending   func(st *S)
	fulfilled func(st *S, v T)
	rejected  func(st *S, msg string)
}

// dispatch runs call through pending -> fulfilled|rejected. The terminal
// reducer always runs, whatever else resolved in the meantime.
func dispatch[S, T any](s *store[S], lc lifecycle[S, T], call func() (T, error)) (T, error) {
	if lc.pending != nil {
		s.update(lc.pending)
	}
	log.Debug().Str("slice", s.name).Str("op", lc.op).Msg("pending")

	v, err := call()
	if err != nil {
		msg := domain.ErrorMessage(err, lc.fallback)
		if lc.rejected != nil {
			s.update(func(st *S) { lc.rejected(st, msg) })
		}
		log.Warn().Err(err).Str("slice", s.name).Str("op", lc.op).Str("message", msg).Msg("rejected")
		return v, err
	}

	if lc.fulfilled != nil {
		s.update(func(st *S) { lc.fulfilled(st, v) })
	}
	log.Debug().Str("slice", s.name).Str("op", lc.op).Msg("fulfilled")
	return v, nil
}

var errEmptyPayload = errors.New("empty response payload")

// decodeOne is the common "call then decode a single object" step.
func decodeOne[T any](resp *domain.APIResponse, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errEmptyPayload
	}
	if data := bytes.TrimSpace(resp.Data); len(data) == 0 || string(data) == "null" {
		return nil, errEmptyPayload
	}
	v := new(T)
	if err := resp.Decode(v); err != nil {
		return nil, err
	}
	return v, nil
}
