package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const fileHeader = `# mailcron deployment configuration
# Stage settings and tags are fixed in the binary; this file only carries
# the deployment inputs. MAILCRON_* environment variables override values
# here (nested keys use a double underscore, e.g. MAILCRON_NETWORK__ID).
`

// Marshal renders cfg as YAML with a short explanatory header.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes cfg to path. Existing files are left untouched unless
// overwrite is set.
func WriteFile(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Starter returns a config pre-filled with defaults and placeholders for
// the values every deployment must supply.
func Starter() *Config {
	cfg := &Config{
		ParameterName: "/mailcron/smtp-credentials",
		Network: NetworkConfig{
			ID:     "vpc-00000000000000000",
			Shared: true,
		},
		Worker: WorkerConfig{
			CodeBucket: "mailcron-artifacts",
			CodeKey:    "worker/bootstrap.zip",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}
