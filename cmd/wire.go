package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bnema/summ/internal/adapters/password"
	pdfadapter "github.com/bnema/summ/internal/adapters/pdf"
	"github.com/bnema/summ/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/summ/internal/adapters/repo/toml"
	chainstore "github.com/bnema/summ/internal/adapters/secrets/chain"
	filestore "github.com/bnema/summ/internal/adapters/secrets/file"
	"github.com/bnema/summ/internal/adapters/session/memory"
	"github.com/bnema/summ/internal/adapters/session/token"
	"github.com/bnema/summ/internal/adapters/summarizer/gemini"
	"github.com/bnema/summ/internal/application"
	"github.com/bnema/summ/internal/config"
	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/logging"
	"github.com/bnema/summ/internal/ports"
	"github.com/spf13/viper"
)

const dataDirMode = 0o700

type app struct {
	cfg         config.Config
	log         logging.Logger
	secrets     ports.SecretStore
	credentials ports.CredentialRepository
	hasher      ports.PasswordHasher
	parser      ports.DocumentParser
	summarizer  ports.Summarizer
	clock       ports.Clock
	location    *time.Location

	history *sqlite.HistoryRepository
	closers []io.Closer

	copyToClipboard func(string) error
	newLineReader   func(in io.Reader, out io.Writer, historyFile string) (lineReader, error)
}

func wireApp(v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, dataDirMode); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.NewFileLogger(cfg.Log.File, level)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	a := &app{
		cfg:             cfg,
		log:             logger,
		parser:          pdfadapter.NewParser(),
		clock:           ports.SystemClock{},
		location:        time.Local,
		closers:         []io.Closer{logFile},
		copyToClipboard: clipboard.WriteAll,
		newLineReader:   newReadlineReader,
	}

	if a.secrets, err = wireSecretStore(cfg.Secrets); err != nil {
		return nil, errors.Join(err, a.close())
	}

	if a.credentials, err = tomlrepo.NewCredentialRepository(cfg.CredentialsPath); err != nil {
		return nil, errors.Join(fmt.Errorf("wire credential repository: %w", err), a.close())
	}

	scheme, err := password.ParseScheme(cfg.HashScheme)
	if err != nil {
		return nil, errors.Join(err, a.close())
	}
	a.hasher = password.NewHasher(scheme)

	a.summarizer = gemini.Client{
		Endpoint:   cfg.Summarizer.Endpoint,
		APIKey:     a.apiKey,
		HTTPClient: http.DefaultClient,
		Timeout:    cfg.Summarizer.Timeout,
	}

	return a, nil
}

func wireSecretStore(cfg config.Secrets) (ports.SecretStore, error) {
	switch cfg.Backend {
	case config.SecretsBackendFile:
		return filestore.NewStore(cfg.Dir), nil
	default:
		store, err := chainstore.NewPassWithFileFallback(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("wire secret store chain: %w", err)
		}
		return store, nil
	}
}

// apiKey prefers the configured key and falls back to the secret store.
func (a *app) apiKey(ctx context.Context) (string, error) {
	if a.cfg.Summarizer.APIKey != "" {
		return a.cfg.Summarizer.APIKey, nil
	}

	key, err := a.secrets.Get(ctx, a.cfg.Summarizer.APIKeyRef)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return "", fmt.Errorf("no Gemini API key: set GEMINI_API_KEY or run 'summ key set': %w", domain.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("read api key %q: %w", a.cfg.Summarizer.APIKeyRef, err)
	}

	return key, nil
}

// tokenSessions persists the session between invocations.
func (a *app) tokenSessions() ports.SessionStore {
	return token.NewStore(a.secrets, a.cfg.Session.Key, a.clock)
}

func (a *app) memorySessions() ports.SessionStore {
	return memory.NewStore(a.clock)
}

// historyRepository opens the database on first use so commands that never
// touch history do not create it.
func (a *app) historyRepository(ctx context.Context) (*sqlite.HistoryRepository, error) {
	if a.history != nil {
		return a.history, nil
	}

	repo, err := sqlite.Open(ctx, a.cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("wire history repository: %w", err)
	}
	a.history = repo
	a.closers = append(a.closers, repo)

	return repo, nil
}

func (a *app) workbench(ctx context.Context, sessions ports.SessionStore) (*application.Workbench, error) {
	history, err := a.historyRepository(ctx)
	if err != nil {
		return nil, err
	}

	return application.NewWorkbench(application.WorkbenchDeps{
		Auth:       application.NewAuthService(a.credentials, a.hasher, sessions, a.clock, a.cfg.Session.TTL),
		Input:      application.NewInputService(a.parser),
		Summarizer: a.summarizer,
		History:    application.NewHistoryService(history, a.clock),
		Logger:     a.log,
		Clock:      a.clock,
		Location:   a.location,
	}), nil
}

// resume builds a workbench over the persisted session and restores it.
func (a *app) resume(ctx context.Context) (*application.Workbench, error) {
	wb, err := a.workbench(ctx, a.tokenSessions())
	if err != nil {
		return nil, err
	}
	if err := wb.CheckLoginState(ctx); err != nil {
		return nil, fmt.Errorf("check login state: %w", err)
	}

	return wb, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.history = nil

	return errors.Join(errs...)
}
