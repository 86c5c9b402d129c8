package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no config file present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "proposalgen", cfg.App.Name)
	assert.Equal(t, "127.0.0.1:8001", cfg.Server.Addr())
	assert.Equal(t, "templates/proposal.docx", cfg.Templates.Proposal)
	assert.Equal(t, "templates/invoice.xlsx", cfg.Templates.Invoice)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.Server.CORSOrigins, "tauri://localhost")
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PROPOSALGEN_SERVER_PORT", "9100")
	t.Setenv("PROPOSALGEN_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  port: 9200\ntemplates:\n  proposal: /srv/templates/offer.docx\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "/srv/templates/offer.docx", cfg.Templates.Proposal)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: ["), 0o644))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}
