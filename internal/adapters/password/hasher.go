// Package password turns plaintext passwords into self-describing digests
// and checks candidates against stored digests.
//
// New digests are argon2id PHC strings by default, or bcrypt when
// configured. Verify also accepts bare 64-character SHA-256 hex digests
// written by earlier releases; those are never produced again.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

type Scheme string

const (
	SchemeArgon2id Scheme = "argon2id"
	SchemeBcrypt   Scheme = "bcrypt"
)

func ParseScheme(raw string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SchemeArgon2id:
		return SchemeArgon2id, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	default:
		return "", fmt.Errorf("unknown hash scheme %q: %w", raw, domain.ErrValidation)
	}
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	saltLen int
	keyLen  uint32
}

var defaultArgon = argonParams{time: 1, memory: 64 * 1024, threads: 4, saltLen: 16, keyLen: 32}

type Hasher struct {
	scheme     Scheme
	argon      argonParams
	bcryptCost int
	random     io.Reader
}

var _ ports.PasswordHasher = (*Hasher)(nil)

func NewHasher(scheme Scheme) *Hasher {
	return &Hasher{
		scheme:     scheme,
		argon:      defaultArgon,
		bcryptCost: bcrypt.DefaultCost,
		random:     rand.Reader,
	}
}

func (h *Hasher) Hash(password string) (string, error) {
	switch h.scheme {
	case SchemeBcrypt:
		digest, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(digest), nil
	default:
		return h.hashArgon(password)
	}
}

// Verify reports whether password matches digest. A mismatch is (false, nil);
// an error means the digest itself could not be interpreted.
func (h *Hasher) Verify(password, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return verifyArgon(password, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("bcrypt compare: %w", err)
		}
		return true, nil
	case isLegacyDigest(digest):
		sum := sha256.Sum256([]byte(password))
		want := strings.ToLower(digest)
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(want)) == 1, nil
	default:
		return false, fmt.Errorf("unrecognised password digest: %w", domain.ErrValidation)
	}
}

func (h *Hasher) hashArgon(password string) (string, error) {
	p := h.argon
	salt := make([]byte, p.saltLen)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon(password, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("malformed argon2id digest: %w", domain.ErrValidation)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parse argon2id version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2id version %d: %w", version, domain.ErrValidation)
	}

	var (
		memory, iterations uint32
		threads            uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("parse argon2id params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode argon2id salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode argon2id key: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func isLegacyDigest(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
