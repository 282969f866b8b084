package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "mailcron.yaml"

// EnvPrefix is the prefix of environment variables overriding file values.
// Nested keys use a double underscore: MAILCRON_NETWORK__ID sets network.id.
const EnvPrefix = "MAILCRON_"

// Load reads the config file at path (if non-empty), overlays MAILCRON_*
// environment variables, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithoutValidation loads a configuration without validating it.
func LoadWithoutValidation(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if !k.Exists("network.shared") {
		if err := k.Set("network.shared", true); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyAmbientEnv(&cfg)
	cfg.ApplyDefaults()

	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// applyAmbientEnv fills account and region from the variables the AWS
// tooling conventionally exports.
func applyAmbientEnv(cfg *Config) {
	if cfg.Account == "" {
		cfg.Account = firstEnv("CDK_DEFAULT_ACCOUNT", "AWS_ACCOUNT_ID")
	}
	if cfg.Region == "" {
		cfg.Region = firstEnv("CDK_DEFAULT_REGION", "AWS_REGION", "AWS_DEFAULT_REGION")
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// FindConfigFile returns the path of mailcron.yaml in the current directory.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	path := filepath.Join(cwd, DefaultConfigFilename)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
		}
		return "", err
	}
	return path, nil
}
