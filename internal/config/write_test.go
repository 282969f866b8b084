package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_HeaderAndOmittedSecrets(t *testing.T) {
	t.Parallel()
	cfg := Starter()
	cfg.AWS.AccessKeyID = "AKIAEXAMPLE"
	cfg.AWS.SecretAccessKey = "secret"

	data, err := Marshal(cfg)
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, "# mailcron deployment configuration"))
	assert.Contains(t, s, "parameter_name: /mailcron/smtp-credentials")
	assert.Contains(t, s, "shared: true")
	assert.NotContains(t, s, "AKIAEXAMPLE")
	assert.NotContains(t, s, "secret")
}

func TestWriteFile_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)

	cfg := Starter()
	cfg.Account = "123456789012"
	cfg.Region = "eu-central-1"
	require.NoError(t, WriteFile(cfg, path, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Network.ID, loaded.Network.ID)
	assert.Equal(t, cfg.Worker.CodeKey, loaded.Worker.CodeKey)
	assert.Equal(t, cfg.Worker.MemorySize, loaded.Worker.MemorySize)
}

func TestWriteFile_NoOverwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o600))

	err := WriteFile(Starter(), path, false)
	assert.ErrorContains(t, err, "already exists")

	data, _ := os.ReadFile(path)
	assert.Equal(t, "keep", string(data))

	require.NoError(t, WriteFile(Starter(), path, true))
}
