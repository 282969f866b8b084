package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
account: "123456789012"
region: eu-central-1
parameter_name: /mailcron/smtp
network:
  id: vpc-0abc
worker:
  code_bucket: artifacts
  code_key: worker.zip
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearAmbientEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CDK_DEFAULT_ACCOUNT", "AWS_ACCOUNT_ID", "CDK_DEFAULT_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"} {
		t.Setenv(k, "")
	}
}

func TestLoad_FileWithDefaults(t *testing.T) {
	clearAmbientEnv(t)
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, DefaultApp, cfg.App)
	assert.Equal(t, DefaultStackPrefix, cfg.StackPrefix)
	assert.Equal(t, "123456789012", cfg.Account)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "vpc-0abc", cfg.Network.ID)
	assert.True(t, cfg.Network.Shared, "network lookups are shared unless disabled")
	assert.Equal(t, DefaultRuntime, cfg.Worker.Runtime)
	assert.Equal(t, DefaultHandler, cfg.Worker.Handler)
	assert.Equal(t, DefaultMemorySize, cfg.Worker.MemorySize)
	assert.Equal(t, "mailcron-staging", cfg.StackName(StageStaging))
}

func TestLoad_SharedCanBeDisabled(t *testing.T) {
	clearAmbientEnv(t)
	body := `
account: "123456789012"
region: eu-central-1
parameter_name: /mailcron/smtp
network:
  id: vpc-0abc
  shared: false
worker:
  code_bucket: artifacts
  code_key: worker.zip
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)
	assert.False(t, cfg.Network.Shared)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("MAILCRON_NETWORK__ID", "vpc-fromenv")
	t.Setenv("MAILCRON_STACK_PREFIX", "mc")
	t.Setenv("MAILCRON_WORKER__MEMORY_SIZE", "512")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "vpc-fromenv", cfg.Network.ID)
	assert.Equal(t, "mc", cfg.StackPrefix)
	assert.Equal(t, 512, cfg.Worker.MemorySize)
}

func TestLoad_AmbientAccountAndRegion(t *testing.T) {
	clearAmbientEnv(t)
	t.Setenv("CDK_DEFAULT_ACCOUNT", "210987654321")
	t.Setenv("AWS_REGION", "us-west-2")

	body := `
parameter_name: /mailcron/smtp
network:
  id: vpc-0abc
worker:
  code_bucket: artifacts
  code_key: worker.zip
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "210987654321", cfg.Account)
	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	clearAmbientEnv(t)
	_, err := Load(writeConfig(t, "account: \"123456789012\"\nregion: eu-central-1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := FindConfigFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFilename), []byte(validYAML), 0o600))
	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFilename, filepath.Base(path))
}

func TestLoad_WriteFileRoundTrip(t *testing.T) {
	clearAmbientEnv(t)
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	starter := Starter()
	starter.Account = "123456789012"
	starter.Region = "eu-west-1"

	require.NoError(t, WriteFile(starter, path, false))
	err := WriteFile(starter, path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, WriteFile(starter, path, true))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, starter.Network.ID, loaded.Network.ID)
	assert.Equal(t, starter.Worker.CodeKey, loaded.Worker.CodeKey)
	assert.Equal(t, starter.ParameterName, loaded.ParameterName)
}
