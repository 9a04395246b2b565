package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/summ/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKeyRef = "summ/gemini/api_key"

func TestStorePutInsertsMultiline(t *testing.T) {
	t.Parallel()

	var gotArgs []string
	var gotStdin string
	store := &Store{
		run: func(_ context.Context, stdin string, args ...string) (string, string, error) {
			gotArgs = args
			gotStdin = stdin
			return "", "", nil
		},
	}

	require.NoError(t, store.Put(context.Background(), apiKeyRef, "AIza-test"))
	assert.Equal(t, []string{"insert", "--multiline", "--force", apiKeyRef}, gotArgs)
	assert.Equal(t, "AIza-test\n", gotStdin)
}

func TestStoreGetTrimsTrailingLineBreak(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, stdin string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", apiKeyRef}, args)
			assert.Empty(t, stdin)
			return "AIza-test\r\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), apiKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "AIza-test", value)
}

func TestStoreGetMapsMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "Error: summ/session is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "summ/session")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetKeepsStderrInError(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
		},
	}

	_, err := store.Get(context.Background(), apiKeyRef)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass show")
	assert.ErrorContains(t, err, "No secret key")
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, _ string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "--force", "summ/session"}, args)
			return "", "Error: summ/session is not in the password store.", errors.New("exit status 1")
		},
	}

	require.NoError(t, store.Delete(context.Background(), "summ/session"))
}
