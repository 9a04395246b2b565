package password

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bnema/summ/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseScheme(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw     string
		want    Scheme
		wantErr bool
	}{
		{raw: "", want: SchemeArgon2id},
		{raw: "argon2id", want: SchemeArgon2id},
		{raw: " BCRYPT ", want: SchemeBcrypt},
		{raw: "md5", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseScheme(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestArgon2idRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(SchemeArgon2id)

	digest, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=65536,t=1,p=4$"), digest)

	ok, err := h.Verify("hunter2", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("hunter3", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2idDigestsAreSalted(t *testing.T) {
	t.Parallel()

	h := NewHasher(SchemeArgon2id)

	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2idUsesInjectedRandomness(t *testing.T) {
	t.Parallel()

	h := NewHasher(SchemeArgon2id)
	h.random = bytes.NewReader(bytes.Repeat([]byte{0x01}, 16))

	digest, err := h.Hash("pw")
	require.NoError(t, err)
	assert.Contains(t, digest, "$AQEBAQEBAQEBAQEBAQEBAQ$")
}

func TestArgon2idHashFailsWithoutEntropy(t *testing.T) {
	t.Parallel()

	h := NewHasher(SchemeArgon2id)
	h.random = bytes.NewReader(nil)

	_, err := h.Hash("pw")
	require.Error(t, err)
	assert.ErrorContains(t, err, "generate salt")
}

func TestBcryptRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(SchemeBcrypt)
	h.bcryptCost = bcrypt.MinCost

	digest, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2a$"), digest)

	ok, err := h.Verify("hunter2", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("nope", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAcceptsDigestsFromAnyScheme(t *testing.T) {
	t.Parallel()

	bc := NewHasher(SchemeBcrypt)
	bc.bcryptCost = bcrypt.MinCost
	bcDigest, err := bc.Hash("pw")
	require.NoError(t, err)

	ok, err := NewHasher(SchemeArgon2id).Verify("pw", bcDigest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyLegacySHA256Digest(t *testing.T) {
	t.Parallel()

	// sha256("password")
	const legacy = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	h := NewHasher(SchemeArgon2id)

	ok, err := h.Verify("password", legacy)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("password", strings.ToUpper(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("Password", legacy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsMalformedDigests(t *testing.T) {
	t.Parallel()

	h := NewHasher(SchemeArgon2id)
	for _, digest := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$onlysalt",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$a2V5",
	} {
		_, err := h.Verify("pw", digest)
		assert.Error(t, err, digest)
	}
}
