package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	DB     DBConfig     `yaml:"db"`
	Server ServerConfig `yaml:"server"`
	JWT    JWTConfig    `yaml:"jwt"`
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_MergesEnvironmentOverBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  port: 5432
  name: notifyhub
server:
  port: ":8080"
`)
	writeFile(t, dir, "production.yaml", `
db:
  host: db.internal
`)

	var cfg testConfig
	require.NoError(t, Load("production", dir, &cfg))

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "notifyhub", cfg.DB.Name)
	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestLoad_SubstitutesSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
jwt:
  secret: ${NOTIFYHUB_TEST_SECRET}
`)
	writeFile(t, dir, "secrets.env", "NOTIFYHUB_TEST_SECRET=from-file\n")

	var cfg testConfig
	require.NoError(t, Load("", dir, &cfg))
	assert.Equal(t, "from-file", cfg.JWT.Secret)

	t.Setenv("NOTIFYHUB_TEST_SECRET", "from-env")
	cfg = testConfig{}
	require.NoError(t, Load("", dir, &cfg))
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoad_MissingBase(t *testing.T) {
	var cfg testConfig
	err := Load("", t.TempDir(), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base.yaml")
}
