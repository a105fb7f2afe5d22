// Package config provides configuration loading for cv-extractor.
// Supports YAML files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spherical/cv-extractor/internal/domain"
	"github.com/spherical/cv-extractor/internal/layout"
)

// Config holds all configuration for cv-extractor.
type Config struct {
	Layout        LayoutConfig        `yaml:"layout"`
	Archive       ArchiveConfig       `yaml:"archive"`
	LLM           LLMConfig           `yaml:"llm"`
	Upload        UploadConfig        `yaml:"upload"`
	Server        ServerConfig        `yaml:"server"`
	Batch         BatchConfig         `yaml:"batch"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// LayoutConfig holds page geometry in PDF points.
type LayoutConfig struct {
	PageWidth       float64 `yaml:"page_width"`
	PageHeight      float64 `yaml:"page_height"`
	LeftMargin      float64 `yaml:"left_margin"`
	RightMargin     float64 `yaml:"right_margin"`
	TopMargin       float64 `yaml:"top_margin"`
	BottomMargin    float64 `yaml:"bottom_margin"`
	FontSize        float64 `yaml:"font_size"`
	CharWidthRatio  float64 `yaml:"char_width_ratio"`
	LineHeightRatio float64 `yaml:"line_height_ratio"`
}

// ArchiveConfig holds DOCX archive settings.
type ArchiveConfig struct {
	EntryName     string `yaml:"entry_name"`
	MaxEntryBytes int64  `yaml:"max_entry_bytes"`
}

// LLMConfig holds extraction model settings.
type LLMConfig struct {
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// UploadConfig holds upload preparation settings.
type UploadConfig struct {
	Mode         string `yaml:"mode"` // pdf or images
	ImageQuality int    `yaml:"image_quality"`
	WorkDir      string `yaml:"work_dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
}

// BatchConfig holds batch conversion settings.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("validate config", err)
	}

	return cfg, nil
}

// DefaultConfig returns the built-in configuration. Layout defaults render
// US Letter pages with 12pt Helvetica.
func DefaultConfig() *Config {
	m := layout.DefaultMetrics()
	return &Config{
		Layout: LayoutConfig{
			PageWidth:       m.PageWidth,
			PageHeight:      m.PageHeight,
			LeftMargin:      m.LeftMargin,
			RightMargin:     m.RightMargin,
			TopMargin:       m.TopMargin,
			BottomMargin:    m.BottomMargin,
			FontSize:        m.FontSize,
			CharWidthRatio:  m.CharWidthRatio,
			LineHeightRatio: m.LineHeightRatio,
		},
		Archive: ArchiveConfig{
			EntryName:     domain.DocumentEntryName,
			MaxEntryBytes: 64 << 20,
		},
		LLM: LLMConfig{
			Model:      "google/gemini-2.5-flash",
			BaseURL:    "https://openrouter.ai/api/v1/chat/completions",
			Timeout:    2 * time.Minute,
			MaxRetries: 3,
		},
		Upload: UploadConfig{
			Mode:         "pdf",
			ImageQuality: 85,
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     3 * time.Minute,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   20 << 20,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	m := c.Metrics()
	if m.FontSize <= 0 || m.CharWidthRatio <= 0 || m.LineHeightRatio <= 0 {
		return fmt.Errorf("font_size, char_width_ratio and line_height_ratio must be positive")
	}
	if m.MaxCharsPerLine() < 1 {
		return fmt.Errorf("page width leaves no room for text")
	}
	if m.LinesPerPage() < 1 {
		return fmt.Errorf("page height leaves no room for text")
	}

	if strings.TrimSpace(c.Archive.EntryName) == "" {
		return fmt.Errorf("archive entry_name cannot be empty")
	}
	if c.Archive.MaxEntryBytes < 1 {
		return fmt.Errorf("invalid archive max_entry_bytes: %d", c.Archive.MaxEntryBytes)
	}

	if c.Upload.Mode != "pdf" && c.Upload.Mode != "images" {
		return fmt.Errorf("invalid upload mode: %s", c.Upload.Mode)
	}
	if c.Upload.ImageQuality < 1 || c.Upload.ImageQuality > 100 {
		return fmt.Errorf("image_quality must be between 1 and 100")
	}

	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("invalid llm max_retries: %d", c.LLM.MaxRetries)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("invalid server max_upload_bytes: %d", c.Server.MaxUploadBytes)
	}

	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch workers must be at least 1")
	}

	switch c.Observability.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Observability.LogFormat)
	}

	return nil
}

// Metrics returns the layout geometry.
func (c *Config) Metrics() layout.Metrics {
	return layout.Metrics{
		PageWidth:       c.Layout.PageWidth,
		PageHeight:      c.Layout.PageHeight,
		LeftMargin:      c.Layout.LeftMargin,
		RightMargin:     c.Layout.RightMargin,
		TopMargin:       c.Layout.TopMargin,
		BottomMargin:    c.Layout.BottomMargin,
		FontSize:        c.Layout.FontSize,
		CharWidthRatio:  c.Layout.CharWidthRatio,
		LineHeightRatio: c.Layout.LineHeightRatio,
	}
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LogConfig returns logger settings for domain.NewLoggerWithConfig.
func (c *Config) LogConfig() domain.LogConfig {
	return domain.LogConfig{
		Level:  domain.ParseLogLevel(c.Observability.LogLevel),
		Format: c.Observability.LogFormat,
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}

	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	if v := os.Getenv("CV_EXTRACTOR_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("CV_EXTRACTOR_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = d
		}
	}

	if v := os.Getenv("CV_EXTRACTOR_UPLOAD_MODE"); v != "" {
		cfg.Upload.Mode = v
	}

	if v := os.Getenv("CV_EXTRACTOR_IMAGE_QUALITY"); v != "" {
		var q int
		if _, err := fmt.Sscanf(v, "%d", &q); err == nil {
			cfg.Upload.ImageQuality = q
		}
	}

	if v := os.Getenv("CV_EXTRACTOR_WORK_DIR"); v != "" {
		cfg.Upload.WorkDir = v
	}

	if v := os.Getenv("CV_EXTRACTOR_MAX_ENTRY_BYTES"); v != "" {
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Archive.MaxEntryBytes = n
		}
	}

	if v := os.Getenv("CV_EXTRACTOR_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("CV_EXTRACTOR_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("CV_EXTRACTOR_WORKERS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Batch.Workers = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
