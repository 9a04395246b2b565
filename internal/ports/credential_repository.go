package ports

import (
	"context"

	"github.com/bnema/summ/internal/domain"
)

type CredentialRepository interface {
	Get(ctx context.Context, username domain.Username) (domain.Credential, error)
	// Create fails with domain.ErrConflict when the username is already taken.
	Create(ctx context.Context, credential domain.Credential) error
}
