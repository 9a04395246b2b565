package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	usersFileMode   = 0o600
	usersDirMode    = 0o700
	tempFilePattern = ".users-*.toml.tmp"
)

// CredentialRepository stores one record per username in a TOML file.
// Records are only ever appended.
type CredentialRepository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLocks      = map[string]*sync.RWMutex{}
)

var _ ports.CredentialRepository = (*CredentialRepository)(nil)

func NewCredentialRepository(path string) (*CredentialRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("credentials path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials path: %w", err)
	}
	abs = filepath.Clean(abs)

	return &CredentialRepository{path: abs, mu: lockForPath(abs)}, nil
}

func (r *CredentialRepository) Get(ctx context.Context, username domain.Username) (domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credential{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.read()
	if err != nil {
		return domain.Credential{}, err
	}

	for _, rec := range file.Users {
		if rec.Username == string(username) {
			return fromRecord(rec), nil
		}
	}

	return domain.Credential{}, domain.ErrCredentialNotFound
}

func (r *CredentialRepository) Create(ctx context.Context, credential domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if credential.Username == "" {
		return fmt.Errorf("create credential: empty username: %w", domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.read()
	if err != nil {
		return err
	}

	for _, rec := range file.Users {
		if rec.Username == string(credential.Username) {
			return fmt.Errorf("create credential %q: %w", credential.Username, domain.ErrConflict)
		}
	}
	file.Users = append(file.Users, toRecord(credential))

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.write(file)
}

func (r *CredentialRepository) read() (usersFile, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		file := usersFile{}
		file.applyDefaults()
		return file, nil
	}
	if err != nil {
		return usersFile{}, fmt.Errorf("read users file: %w", err)
	}

	var file usersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return usersFile{}, fmt.Errorf("decode users file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return usersFile{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *CredentialRepository) write(file usersFile) error {
	file.applyDefaults()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, usersDirMode); err != nil {
		return fmt.Errorf("create users directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode users file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(usersFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp users file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp users file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace users file: %w", err)
	}
	committed = true

	return nil
}

// lockForPath hands every repository opened on the same file the same lock.
func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLocks[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLocks[path] = mu
	return mu
}

func toRecord(c domain.Credential) userRecord {
	rec := userRecord{Username: string(c.Username), PasswordHash: c.PasswordHash}
	if !c.CreatedAt.IsZero() {
		rec.CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
	}

	return rec
}

func fromRecord(rec userRecord) domain.Credential {
	c := domain.Credential{Username: domain.Username(rec.Username), PasswordHash: rec.PasswordHash}
	if rec.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
			c.CreatedAt = parsed
		}
	}

	return c
}
