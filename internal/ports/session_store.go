package ports

import (
	"context"

	"github.com/bnema/summ/internal/domain"
)

// SessionStore holds zero or one session. Load fails with domain.ErrNoSession when empty.
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
