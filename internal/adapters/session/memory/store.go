// Package memory keeps the session in process memory only, so it ends
// with the process.
package memory

import (
	"context"
	"sync"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
)

type Store struct {
	mu      sync.Mutex
	session *domain.Session
	clock   ports.Clock
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore(clock ports.Clock) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Store{clock: clock}
}

func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.Session{}, domain.ErrNoSession
	}
	if s.session.Expired(s.clock.Now()) {
		s.session = nil
		return domain.Session{}, domain.ErrNoSession
	}

	return *s.session, nil
}

func (s *Store) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = &session
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	return nil
}
