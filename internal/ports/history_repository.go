package ports

import (
	"context"

	"github.com/bnema/summ/internal/domain"
)

type HistoryRepository interface {
	Get(ctx context.Context, id domain.HistoryEntryID) (domain.HistoryEntry, error)
	Put(ctx context.Context, entry domain.HistoryEntry) error
	// List returns every entry, newest first.
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	// DeleteAll removes the given entries in a single bulk operation.
	DeleteAll(ctx context.Context, ids []domain.HistoryEntryID) error
}
