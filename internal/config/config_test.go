package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/layout"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"OPENROUTER_API_KEY", "LLM_MODEL", "CV_EXTRACTOR_LLM_BASE_URL", "CV_EXTRACTOR_LLM_TIMEOUT",
		"CV_EXTRACTOR_UPLOAD_MODE", "CV_EXTRACTOR_IMAGE_QUALITY", "CV_EXTRACTOR_WORK_DIR",
		"CV_EXTRACTOR_MAX_ENTRY_BYTES", "CV_EXTRACTOR_HOST", "CV_EXTRACTOR_PORT",
		"CV_EXTRACTOR_WORKERS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, layout.DefaultMetrics(), cfg.Metrics())
	assert.Equal(t, 85, cfg.Metrics().MaxCharsPerLine())
	assert.Equal(t, 51, cfg.Metrics().LinesPerPage())
	assert.Equal(t, domain.DocumentEntryName, cfg.Archive.EntryName)
	assert.Equal(t, "0.0.0.0:8090", cfg.Address())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
layout:
  font_size: 10
llm:
  model: openai/gpt-4o-mini
  timeout: 30s
upload:
  mode: images
  image_quality: 70
server:
  port: 9000
batch:
  workers: 8
observability:
  log_level: debug
  log_format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Layout.FontSize)
	assert.Equal(t, 612.0, cfg.Layout.PageWidth, "unset keys keep defaults")
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "images", cfg.Upload.Mode)
	assert.Equal(t, 70, cfg.Upload.ImageQuality)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, domain.LogLevelDebug, cfg.LogConfig().Level)
	assert.Equal(t, "json", cfg.LogConfig().Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "anthropic/claude")
	t.Setenv("CV_EXTRACTOR_PORT", "9100")
	t.Setenv("CV_EXTRACTOR_WORKERS", "2")
	t.Setenv("CV_EXTRACTOR_UPLOAD_MODE", "images")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "anthropic/claude", cfg.LLM.Model)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "images", cfg.Upload.Mode)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("upload:\n  mode: fax\n"), 0o644))
	_, err = Load(invalid)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrorTypeConfig, domainErr.Type)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero font", mutate: func(c *Config) { c.Layout.FontSize = 0 }},
		{name: "no width", mutate: func(c *Config) { c.Layout.LeftMargin = 400; c.Layout.RightMargin = 400 }},
		{name: "empty entry", mutate: func(c *Config) { c.Archive.EntryName = " " }},
		{name: "quality", mutate: func(c *Config) { c.Upload.ImageQuality = 101 }},
		{name: "port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "workers", mutate: func(c *Config) { c.Batch.Workers = 0 }},
		{name: "log format", mutate: func(c *Config) { c.Observability.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
