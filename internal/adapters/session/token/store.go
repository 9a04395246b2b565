// Package token persists the login session between CLI invocations as an
// HS256 JWT kept in the secret store. The signing key lives next to it and
// is generated on first use.
package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

const signingKeyBytes = 32

type claims struct {
	jwt.RegisteredClaims
}

type Store struct {
	secrets       ports.SecretStore
	tokenRef      string
	signingKeyRef string
	clock         ports.Clock
	random        io.Reader
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore(secrets ports.SecretStore, tokenRef string, clock ports.Clock) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Store{
		secrets:       secrets,
		tokenRef:      tokenRef,
		signingKeyRef: tokenRef + "_signing_key",
		clock:         clock,
		random:        rand.Reader,
	}
}

func (s *Store) Save(ctx context.Context, session domain.Session) error {
	key, err := s.signingKey(ctx, true)
	if err != nil {
		return err
	}

	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:       session.ID,
		Subject:  string(session.Username),
		IssuedAt: jwt.NewNumericDate(session.IssuedAt),
	}}
	if !session.ExpiresAt.IsZero() {
		c.ExpiresAt = jwt.NewNumericDate(session.ExpiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	if err := s.secrets.Put(ctx, s.tokenRef, signed); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	return nil
}

// Load returns domain.ErrNoSession when no token is stored or when the stored
// token is expired or no longer verifiable. Unusable tokens are removed.
func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	raw, err := s.secrets.Get(ctx, s.tokenRef)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return domain.Session{}, domain.ErrNoSession
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session token: %w", err)
	}

	key, err := s.signingKey(ctx, false)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return domain.Session{}, s.discard(ctx, "signing key missing")
	}
	if err != nil {
		return domain.Session{}, err
	}

	var c claims
	_, err = jwt.ParseWithClaims(raw, &c,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domain.Session{}, s.discard(ctx, "session expired")
	}
	if err != nil {
		return domain.Session{}, s.discard(ctx, "invalid session token")
	}
	if c.Subject == "" {
		return domain.Session{}, s.discard(ctx, "session token has no subject")
	}

	session := domain.Session{ID: c.ID, Username: domain.Username(c.Subject)}
	if c.IssuedAt != nil {
		session.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		session.ExpiresAt = c.ExpiresAt.Time
	}

	return session, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.secrets.Delete(ctx, s.tokenRef); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}

	return nil
}

func (s *Store) discard(ctx context.Context, reason string) error {
	if err := s.Clear(ctx); err != nil {
		return errors.Join(fmt.Errorf("%s: %w", reason, domain.ErrNoSession), err)
	}

	return fmt.Errorf("%s: %w", reason, domain.ErrNoSession)
}

func (s *Store) signingKey(ctx context.Context, create bool) ([]byte, error) {
	encoded, err := s.secrets.Get(ctx, s.signingKeyRef)
	if err == nil {
		key, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil {
			return nil, fmt.Errorf("decode session signing key: %w", decodeErr)
		}
		return key, nil
	}
	if !create || !errors.Is(err, domain.ErrSecretNotFound) {
		return nil, fmt.Errorf("read session signing key: %w", err)
	}

	key := make([]byte, signingKeyBytes)
	if _, err := io.ReadFull(s.random, key); err != nil {
		return nil, fmt.Errorf("generate session signing key: %w", err)
	}
	if err := s.secrets.Put(ctx, s.signingKeyRef, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("store session signing key: %w", err)
	}

	return key, nil
}
