package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHistoryServiceRecordKeysByCurrentInstant(t *testing.T) {
	repo := mocks.NewMockHistoryRepository(t)
	clock := mocks.NewMockClock(t)
	now := time.Date(2026, 7, 9, 14, 3, 5, 42e6, time.FixedZone("CEST", 2*60*60))

	clock.EXPECT().Now().Return(now).Once()
	want := domain.HistoryEntry{
		ID:           "2026-07-09T12:03:05.042Z",
		OriginalText: "original",
		Summary:      "summary",
		Timestamp:    now.UnixMilli(),
	}
	repo.EXPECT().Put(mockAnyContext(), want).Return(nil).Once()

	got, err := NewHistoryService(repo, clock).Record(context.Background(), "original", "summary")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHistoryServiceClearDeclined(t *testing.T) {
	repo := mocks.NewMockHistoryRepository(t)
	confirmer := mocks.NewMockConfirmer(t)

	confirmer.EXPECT().Confirm(mockAnyContext(), ClearHistoryPrompt).Return(false, nil).Once()

	cleared, err := NewHistoryService(repo, nil).Clear(context.Background(), confirmer)
	require.NoError(t, err)
	assert.False(t, cleared)
	repo.AssertNotCalled(t, "DeleteAll", mock.Anything, mock.Anything)
}

func TestHistoryServiceClearDeletesEveryEntryInOneCall(t *testing.T) {
	repo := mocks.NewMockHistoryRepository(t)
	confirmer := mocks.NewMockConfirmer(t)

	confirmer.EXPECT().Confirm(mockAnyContext(), ClearHistoryPrompt).Return(true, nil).Once()
	repo.EXPECT().List(mockAnyContext()).Return([]domain.HistoryEntry{{ID: "b"}, {ID: "a"}}, nil).Once()
	repo.EXPECT().DeleteAll(mockAnyContext(), []domain.HistoryEntryID{"b", "a"}).Return(nil).Once()

	cleared, err := NewHistoryService(repo, nil).Clear(context.Background(), confirmer)
	require.NoError(t, err)
	assert.True(t, cleared)
}

func TestHistoryServiceClearEmptyStoreSucceeds(t *testing.T) {
	repo := mocks.NewMockHistoryRepository(t)
	confirmer := mocks.NewMockConfirmer(t)

	confirmer.EXPECT().Confirm(mockAnyContext(), ClearHistoryPrompt).Return(true, nil).Once()
	repo.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	repo.EXPECT().DeleteAll(mockAnyContext(), []domain.HistoryEntryID{}).Return(nil).Once()

	cleared, err := NewHistoryService(repo, nil).Clear(context.Background(), confirmer)
	require.NoError(t, err)
	assert.True(t, cleared)
}

func TestHistoryServiceClearFailures(t *testing.T) {
	t.Run("confirmer", func(t *testing.T) {
		confirmer := mocks.NewMockConfirmer(t)
		confirmer.EXPECT().Confirm(mockAnyContext(), ClearHistoryPrompt).Return(false, errors.New("stdin closed")).Once()

		_, err := NewHistoryService(mocks.NewMockHistoryRepository(t), nil).Clear(context.Background(), confirmer)
		require.Error(t, err)
	})

	t.Run("bulk delete", func(t *testing.T) {
		repo := mocks.NewMockHistoryRepository(t)
		confirmer := mocks.NewMockConfirmer(t)
		confirmer.EXPECT().Confirm(mockAnyContext(), ClearHistoryPrompt).Return(true, nil).Once()
		repo.EXPECT().List(mockAnyContext()).Return([]domain.HistoryEntry{{ID: "a"}}, nil).Once()
		repo.EXPECT().DeleteAll(mockAnyContext(), []domain.HistoryEntryID{"a"}).Return(errors.New("database is locked")).Once()

		cleared, err := NewHistoryService(repo, nil).Clear(context.Background(), confirmer)
		require.Error(t, err)
		assert.False(t, cleared)
	})
}
