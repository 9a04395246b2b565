package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	"github.com/google/uuid"
)

type AuthService struct {
	credentials ports.CredentialRepository
	hasher      ports.PasswordHasher
	sessions    ports.SessionStore
	clock       ports.Clock
	ttl         time.Duration
	newID       func() string
}

// NewAuthService builds the signup/login flow. A ttl of zero issues sessions
// that only end on logout.
func NewAuthService(credentials ports.CredentialRepository, hasher ports.PasswordHasher, sessions ports.SessionStore, clock ports.Clock, ttl time.Duration) *AuthService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &AuthService{
		credentials: credentials,
		hasher:      hasher,
		sessions:    sessions,
		clock:       clock,
		ttl:         ttl,
		newID:       uuid.NewString,
	}
}

func normalizeCredentials(c Credentials) (domain.Username, string, error) {
	username := domain.NormalizeUsername(c.Username)
	password := strings.TrimSpace(c.Password)
	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required: %w", domain.ErrValidation)
	}

	return username, password, nil
}

func (s *AuthService) Signup(ctx context.Context, c Credentials) error {
	username, password, err := normalizeCredentials(c)
	if err != nil {
		return err
	}

	_, err = s.credentials.Get(ctx, username)
	switch {
	case err == nil:
		return fmt.Errorf("signup %q: %w", username, domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("look up credential: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	credential := domain.Credential{Username: username, PasswordHash: digest, CreatedAt: s.clock.Now().UTC()}
	if err := s.credentials.Create(ctx, credential); err != nil {
		return fmt.Errorf("create credential: %w", err)
	}

	return nil
}

// Login reports domain.ErrInvalidCredentials for both an unknown username
// and a wrong password.
func (s *AuthService) Login(ctx context.Context, c Credentials) (domain.Session, error) {
	username, password, err := normalizeCredentials(c)
	if err != nil {
		return domain.Session{}, err
	}

	credential, err := s.credentials.Get(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("look up credential: %w", err)
	}

	ok, err := s.hasher.Verify(password, credential.PasswordHash)
	if err != nil {
		return domain.Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	session := domain.Session{ID: s.newID(), Username: username, IssuedAt: now}
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// Current returns the active session or domain.ErrNoSession.
func (s *AuthService) Current(ctx context.Context) (domain.Session, error) {
	session, err := s.sessions.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Expired(s.clock.Now()) {
		return domain.Session{}, domain.ErrNoSession
	}

	return session, nil
}
