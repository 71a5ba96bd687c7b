// Package config loads the formbind configuration from a YAML file and
// FORMBIND_ environment variables, and resolves the signing secret from the
// file or the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/namespace"
)

// EnvPrefix prefixes environment overrides: FORMBIND_SECRET,
// FORMBIND_LOG_LEVEL and so on.
const EnvPrefix = "FORMBIND"

// Secret sources.
const (
	SecretFromConfig  = "config"
	SecretFromKeyring = "keyring"
)

var (
	ErrMissingSecret = errors.New("config: signing secret is not configured")
	ErrInvalid       = errors.New("config: invalid configuration")
)

type Config struct {
	Secret       string        `mapstructure:"secret"`
	SecretSource string        `mapstructure:"secret_source"`
	Keyring      KeyringConfig `mapstructure:"keyring"`
	Log          LogConfig     `mapstructure:"log"`
	// Listen is the address of the demo server.
	Listen     string               `mapstructure:"listen"`
	Namespaces []namespace.Override `mapstructure:"namespaces"`
}

type KeyringConfig struct {
	Service string `mapstructure:"service"`
	User    string `mapstructure:"user"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		SecretSource: SecretFromConfig,
		Keyring: KeyringConfig{
			Service: "formbind",
			User:    "default",
		},
		Log: LogConfig{
			Level:  logging.LevelInfo,
			Format: logging.FormatText,
		},
		Listen: "127.0.0.1:8080",
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("secret", defaults.Secret)
	v.SetDefault("secret_source", defaults.SecretSource)
	v.SetDefault("keyring.service", defaults.Keyring.Service)
	v.SetDefault("keyring.user", defaults.Keyring.User)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("listen", defaults.Listen)
	v.SetDefault("namespaces", []map[string]any{})
}

// New returns a viper instance with defaults and environment overrides
// wired. path, when set, names the YAML file to read.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}
	return v
}

// Load reads the configuration at path. An empty path reads formbind.yaml
// from ConfigDir when it exists and falls back to defaults otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		candidate := ConfigFile()
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	v := New(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.SecretSource {
	case SecretFromConfig, SecretFromKeyring:
	default:
		return fmt.Errorf("%w: secret_source %q must be %q or %q", ErrInvalid, c.SecretSource, SecretFromConfig, SecretFromKeyring)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format %q must be %q or %q", ErrInvalid, c.Log.Format, logging.FormatText, logging.FormatJSON)
	}
	if c.SecretSource == SecretFromKeyring && (c.Keyring.Service == "" || c.Keyring.User == "") {
		return fmt.Errorf("%w: keyring.service and keyring.user are required", ErrInvalid)
	}
	for i, o := range c.Namespaces {
		if o.Extension == "" || o.Plugin == "" || o.Namespace == "" {
			return fmt.Errorf("%w: namespaces[%d] needs extension, plugin and namespace", ErrInvalid, i)
		}
	}
	return nil
}

// ResolveSecret returns the signing secret from the configured source.
func (c *Config) ResolveSecret() (string, error) {
	if c.SecretSource == SecretFromKeyring {
		secret, err := c.SecretStore().Get()
		if err != nil {
			return "", err
		}
		return secret, nil
	}
	if c.Secret == "" {
		return "", ErrMissingSecret
	}
	return c.Secret, nil
}

// SecretStore returns the keyring entry configured for the secret.
func (c *Config) SecretStore() *KeyringStore {
	return NewKeyringStore(c.Keyring.Service, c.Keyring.User)
}

// Resolver returns a namespace resolver applying the configured overrides.
func (c *Config) Resolver() *namespace.Resolver {
	return namespace.New(namespace.WithOverrides(c.Namespaces))
}

// ConfigDir returns the user's formbind config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "formbind")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".formbind"
	}
	return filepath.Join(home, ".config", "formbind")
}

// ConfigFile returns the path of the default config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "formbind.yaml")
}
