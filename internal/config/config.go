// Package config resolves summ settings. Environment variables (SUMM_*)
// override ~/.summ/config.toml, which overrides the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "SUMM"
	defaultDir = ".summ"

	DataDirKey            = "data_dir"
	CredentialsPathKey    = "credentials.path"
	HistoryPathKey        = "history.path"
	SecretsBackendKey     = "secrets.backend"
	SecretsDirKey         = "secrets.dir"
	SessionKeyKey         = "session.key"
	SessionTTLKey         = "session.ttl"
	SummarizerEndpointKey = "summarizer.endpoint"
	SummarizerAPIKeyKey   = "summarizer.api_key"
	SummarizerKeyRefKey   = "summarizer.api_key_ref"
	SummarizerTimeoutKey  = "summarizer.timeout"
	HashSchemeKey         = "auth.hash_scheme"
	LogLevelKey           = "log.level"
	LogFileKey            = "log.file"

	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"
)

const (
	SecretsBackendChain = "chain"
	SecretsBackendFile  = "file"
)

type Config struct {
	DataDir         string
	CredentialsPath string
	HistoryPath     string
	Secrets         Secrets
	Session         Session
	Summarizer      Summarizer
	HashScheme      string
	Log             Log
}

type Secrets struct {
	Backend string
	Dir     string
}

type Session struct {
	Key string
	TTL time.Duration
}

type Summarizer struct {
	Endpoint  string
	APIKey    string
	APIKeyRef string
	Timeout   time.Duration
}

type Log struct {
	Level string
	File  string
}

// Load fills v from the config file and the environment and returns the
// resolved settings. Paths are absolute and "~" is expanded. A missing
// config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(SummarizerAPIKeyKey, "SUMM_SUMMARIZER_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	v.SetDefault(DataDirKey, filepath.Join(homeDir, defaultDir))
	dataDir, err := expandPath(v.GetString(DataDirKey), homeDir)
	if err != nil {
		return Config{}, err
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dataDir)
	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	// data_dir may be moved by the file itself; the file is still read from
	// the original location.
	dataDir, err = expandPath(v.GetString(DataDirKey), homeDir)
	if err != nil {
		return Config{}, err
	}

	v.SetDefault(CredentialsPathKey, filepath.Join(dataDir, "users.toml"))
	v.SetDefault(HistoryPathKey, filepath.Join(dataDir, "history.db"))
	v.SetDefault(SecretsBackendKey, SecretsBackendChain)
	v.SetDefault(SecretsDirKey, filepath.Join(dataDir, "secrets"))
	v.SetDefault(SessionKeyKey, "summ/session")
	v.SetDefault(SessionTTLKey, "12h")
	v.SetDefault(SummarizerEndpointKey, DefaultEndpoint)
	v.SetDefault(SummarizerKeyRefKey, "summ/gemini/api_key")
	v.SetDefault(SummarizerTimeoutKey, "0s")
	v.SetDefault(HashSchemeKey, "argon2id")
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(LogFileKey, filepath.Join(dataDir, "summ.log"))

	cfg := Config{
		DataDir: dataDir,
		Secrets: Secrets{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(SecretsBackendKey))),
		},
		Session: Session{Key: strings.TrimSpace(v.GetString(SessionKeyKey))},
		Summarizer: Summarizer{
			Endpoint:  strings.TrimSpace(v.GetString(SummarizerEndpointKey)),
			APIKey:    strings.TrimSpace(v.GetString(SummarizerAPIKeyKey)),
			APIKeyRef: strings.TrimSpace(v.GetString(SummarizerKeyRefKey)),
		},
		HashScheme: strings.ToLower(strings.TrimSpace(v.GetString(HashSchemeKey))),
		Log:        Log{Level: strings.TrimSpace(v.GetString(LogLevelKey))},
	}

	for key, dst := range map[string]*string{
		CredentialsPathKey: &cfg.CredentialsPath,
		HistoryPathKey:     &cfg.HistoryPath,
		SecretsDirKey:      &cfg.Secrets.Dir,
		LogFileKey:         &cfg.Log.File,
	} {
		if *dst, err = expandPath(v.GetString(key), homeDir); err != nil {
			return Config{}, fmt.Errorf("%s: %w", key, err)
		}
	}

	if cfg.Session.TTL, err = parseDuration(v, SessionTTLKey); err != nil {
		return Config{}, err
	}
	if cfg.Summarizer.Timeout, err = parseDuration(v, SummarizerTimeoutKey); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Secrets.Backend {
	case SecretsBackendChain, SecretsBackendFile:
	default:
		return fmt.Errorf("%s: unsupported backend %q", SecretsBackendKey, c.Secrets.Backend)
	}
	if c.Session.Key == "" {
		return fmt.Errorf("%s is empty", SessionKeyKey)
	}
	if c.Summarizer.APIKeyRef == "" {
		return fmt.Errorf("%s is empty", SummarizerKeyRefKey)
	}

	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: parse duration %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, d)
	}

	return d, nil
}

func expandPath(path, homeDir string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is empty")
	}
	if path == "~" {
		path = homeDir
	} else if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(homeDir, rest)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}

	return filepath.Clean(abs), nil
}
