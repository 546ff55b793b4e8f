package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretsql/internal/config"
	sserrors "github.com/systmms/secretsql/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secretsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: filepath.Join(t.TempDir(), "nope.yaml")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "mysql", cfg.RealDriverName("mysql", "mysql"))
	assert.Equal(t, 5, cfg.MaxRetry("mysql", 5))
	assert.Equal(t, "aws", cfg.Store().Type)
}

func TestLoadDriverOverrides(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: writeConfig(t, `
version: 0
drivers:
  mysql:
    realDriverClass: mysql-tls
    maxRetry: 2
  postgresql:
    maxRetry: 0
`)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "mysql-tls", cfg.RealDriverName("mysql", "mysql"))
	assert.Equal(t, 2, cfg.MaxRetry("mysql", 5))
	assert.Equal(t, 0, cfg.MaxRetry("postgresql", 5), "an explicit zero disables retries")
	assert.Equal(t, "postgres", cfg.RealDriverName("postgresql", "postgres"))
	assert.Equal(t, 5, cfg.MaxRetry("oracle", 5))
}

func TestLoadStoreSettings(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: writeConfig(t, `
version: 0
store:
  type: aws
  region: eu-west-1
  vpcEndpointUrl: https://vpce.example.com
  vpcEndpointRegion: eu-west-1
  ttlSeconds: 300
`)}
	require.NoError(t, cfg.Load())

	store := cfg.Store()
	assert.Equal(t, "aws", store.Type)
	assert.Equal(t, "eu-west-1", store.Region)
	assert.Equal(t, "https://vpce.example.com", store.VPCEndpointURL)
	assert.Equal(t, 300, store.TTLSeconds)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: writeConfig(t, "version: 7\n")}
	err := cfg.Load()
	require.Error(t, err)

	var cerr sserrors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "version", cerr.Field)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: writeConfig(t, "drivers: [unclosed\n")}
	err := cfg.Load()

	var cerr sserrors.ConfigError
	require.ErrorAs(t, err, &cerr)
}
