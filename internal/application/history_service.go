package application

import (
	"context"
	"fmt"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
)

const ClearHistoryPrompt = "Are you sure you want to clear all summarization history? This cannot be undone."

type HistoryService struct {
	repo  ports.HistoryRepository
	clock ports.Clock
}

func NewHistoryService(repo ports.HistoryRepository, clock ports.Clock) *HistoryService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &HistoryService{repo: repo, clock: clock}
}

func (s *HistoryService) Record(ctx context.Context, originalText, summary string) (domain.HistoryEntry, error) {
	entry := domain.NewHistoryEntry(s.clock.Now(), originalText, summary)
	if err := s.repo.Put(ctx, entry); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("record history: %w", err)
	}

	return entry, nil
}

// List returns every entry, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return entries, nil
}

func (s *HistoryService) Get(ctx context.Context, id domain.HistoryEntryID) (domain.HistoryEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("load history entry: %w", err)
	}

	return entry, nil
}

// Clear asks for confirmation and then deletes every entry in one bulk
// operation. It reports false when the user declined.
func (s *HistoryService) Clear(ctx context.Context, confirmer ports.Confirmer) (bool, error) {
	ok, err := confirmer.Confirm(ctx, ClearHistoryPrompt)
	if err != nil {
		return false, fmt.Errorf("confirm clear history: %w", err)
	}
	if !ok {
		return false, nil
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list history for clear: %w", err)
	}

	ids := make([]domain.HistoryEntryID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	if err := s.repo.DeleteAll(ctx, ids); err != nil {
		return false, fmt.Errorf("clear history: %w", err)
	}

	return true, nil
}
