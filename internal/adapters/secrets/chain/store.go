package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/summ/internal/adapters/secrets/file"
	passstore "github.com/bnema/summ/internal/adapters/secrets/pass"
	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
)

// Store reads and writes through primary and falls back to the second
// backend when the primary is unusable or does not hold the key.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

func New(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil || fallback == nil {
		return nil, errors.New("chain secret store needs two backends")
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewPassWithFileFallback(dir string) (*Store, error) {
	return New(passstore.NewStore(), filestore.NewStore(dir))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil || isContextErr(err) {
		return err
	}

	if fallbackErr := s.fallback.Put(ctx, key, value); fallbackErr != nil {
		return fmt.Errorf("put secret %q: primary: %w; fallback: %w", key, err, fallbackErr)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if isContextErr(err) {
		return "", err
	}

	value, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return value, nil
	}
	if errors.Is(err, domain.ErrSecretNotFound) && errors.Is(fallbackErr, domain.ErrSecretNotFound) {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return "", fmt.Errorf("get secret %q: primary: %w; fallback: %w", key, err, fallbackErr)
}

// Delete removes the key from both backends so a stale fallback copy
// cannot resurface later.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if isContextErr(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	switch {
	case err == nil || fallbackErr == nil:
		return nil
	default:
		return fmt.Errorf("delete secret %q: primary: %w; fallback: %w", key, err, fallbackErr)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
