package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "company-report.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.StandardModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.AdvancedModel)
	assert.Equal(t, 2048, cfg.Anthropic.MaxTokens)
	assert.Equal(t, "https://r.jina.ai", cfg.Search.BaseURL)
	assert.Equal(t, "https://s.jina.ai", cfg.Search.SearchBaseURL)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, 1200, cfg.Retrieval.ChunkChars)
	assert.Equal(t, 5, cfg.Retrieval.MaxURLsPerQuery)
	assert.Equal(t, 4, cfg.Retrieval.FetchWorkers)
	assert.InDelta(t, 2.0, cfg.Retrieval.FetchRate, 0.001)
	assert.Equal(t, "report.html", cfg.Report.OutputPath)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  path: /tmp/runs.db
log:
  level: debug
  format: console
report:
  document_paths:
    - /data/acme_report.txt
  spend_path: /data/spend.xlsx
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/runs.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"/data/acme_report.txt"}, cfg.Report.DocumentPaths)
	assert.Equal(t, "/data/spend.xlsx", cfg.Report.SpendPath)
	// Defaults still apply for unset values
	assert.Equal(t, 4, cfg.Retrieval.TopK)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("COMPANYREPORT_LOG_LEVEL", "warn")
	t.Setenv("COMPANYREPORT_ANTHROPIC_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
