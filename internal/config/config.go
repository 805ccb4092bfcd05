// Package config resolves client settings from three layers, lowest to
// highest precedence: built-in defaults, the YAML config file, and
// REQUESTDESK_* environment variables. Command-line flags override all of
// them and are applied by the command layer.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/requestdesk/requestdesk/internal/errors"
)

// Duration wraps time.Duration so values read as "30s" in both the YAML
// file and environment variables.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the resolved client settings.
type Config struct {
	// ServerURL is the base URL of the request-governance backend.
	ServerURL string `yaml:"server_url" env:"SERVER_URL"`

	// RefreshInterval is the dashboard polling cadence.
	RefreshInterval Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`

	// RequestTimeout bounds a single backend call.
	RequestTimeout Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`

	// CredentialPath overrides where the bearer credential is stored.
	CredentialPath string `yaml:"credential_path" env:"CREDENTIAL_PATH"`

	// LogLevel and LogFormat configure diagnostic output.
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:       "http://localhost:8000",
		RefreshInterval: Duration(30 * time.Second),
		RequestTimeout:  Duration(30 * time.Second),
		LogLevel:        "warn",
		LogFormat:       "text",
	}
}

// DefaultPath returns the standard config file location,
// typically ~/.config/requestdesk/config.yaml.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigRead, "cannot locate user config directory", err)
	}
	return filepath.Join(base, "requestdesk", "config.yaml"), nil
}

// Load resolves the configuration. A missing file is not an error unless the
// path was given explicitly; the defaults then apply. Environment variables
// are applied after the file.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot parse config file", err).
				WithSuggestion("Check the YAML syntax in " + path)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults apply.
	default:
		return Config{}, errors.Wrap(errors.ErrCodeConfigRead, "cannot read config file", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "REQUESTDESK_"}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfigInvalid, "cannot parse environment overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration for values that could not work.
func (c Config) Validate() error {
	url := strings.TrimSpace(c.ServerURL)
	if url == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "server_url must not be empty").
			WithSuggestion("Set server_url in the config file or pass --server")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return errors.New(errors.ErrCodeConfigInvalid, "server_url must start with http:// or https://")
	}
	if c.RefreshInterval <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "refresh_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "request_timeout must be positive")
	}
	return nil
}

// Save writes the configuration to the given path, creating the directory
// if needed.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "cannot encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeConfigRead, "cannot create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeConfigRead, "cannot write config file", err)
	}
	return nil
}
