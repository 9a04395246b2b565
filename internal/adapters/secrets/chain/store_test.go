package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/summ/internal/domain"
	portmocks "github.com/bnema/summ/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sessionKey = "summ/session"

func newChain(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := New(primary, fallback)
	require.NoError(t, err)

	return store, primary, fallback
}

func TestNewRejectsMissingBackend(t *testing.T) {
	t.Parallel()

	_, err := New(nil, portmocks.NewMockSecretStore(t))
	require.Error(t, err)
}

func TestStoreGetPrefersPrimary(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBack(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReportsNotFoundWhenBothMiss(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", fmt.Errorf("pass: %w", domain.ErrSecretNotFound)).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("", fmt.Errorf("file: %w", domain.ErrSecretNotFound)).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetCombinesBackendFailures(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", errors.New("gpg failed")).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("", fmt.Errorf("file: %w", domain.ErrSecretNotFound)).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "gpg failed")
	assert.ErrorContains(t, err, "fallback")
}

func TestStoreGetStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	store, primary, _ := newChain(t)
	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStorePutFallsBackOnlyOnFailure(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Put(mock.Anything, sessionKey, "token-1").Return(nil).Once()
	primary.EXPECT().Put(mock.Anything, sessionKey, "token-2").Return(errors.New("pass unavailable")).Once()
	fallback.EXPECT().Put(mock.Anything, sessionKey, "token-2").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), sessionKey, "token-1"))
	require.NoError(t, store.Put(context.Background(), sessionKey, "token-2"))
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newChain(t)
	primary.EXPECT().Delete(mock.Anything, sessionKey).Return(errors.New("pass unavailable")).Once()
	fallback.EXPECT().Delete(mock.Anything, sessionKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), sessionKey))
}
