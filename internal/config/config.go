package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Alerts    AlertsConfig    `yaml:"alerts_file" mapstructure:"alerts_file"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run audit database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	StandardModel string `yaml:"standard_model" mapstructure:"standard_model"`
	AdvancedModel string `yaml:"advanced_model" mapstructure:"advanced_model"`
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig holds Jina Reader/Search API settings.
type SearchConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// RetrievalConfig configures passage retrieval.
type RetrievalConfig struct {
	TopK            int     `yaml:"top_k" mapstructure:"top_k"`
	ChunkChars      int     `yaml:"chunk_chars" mapstructure:"chunk_chars"`
	MaxURLsPerQuery int     `yaml:"max_urls_per_query" mapstructure:"max_urls_per_query"`
	FetchWorkers    int     `yaml:"fetch_workers" mapstructure:"fetch_workers"`
	FetchRate       float64 `yaml:"fetch_rate" mapstructure:"fetch_rate"`
}

// ReportConfig configures report generation inputs and output.
type ReportConfig struct {
	DocumentPaths []string `yaml:"document_paths" mapstructure:"document_paths"`
	SpendPath     string   `yaml:"spend_path" mapstructure:"spend_path"`
	OutputPath    string   `yaml:"output_path" mapstructure:"output_path"`
}

// AlertsConfig points at an optional alert-rule YAML file.
type AlertsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPANYREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "company-report.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	// Empty defaults register the secret keys so env-only values survive
	// Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("search.key", "")
	v.SetDefault("anthropic.standard_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.advanced_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("search.base_url", "https://r.jina.ai")
	v.SetDefault("search.search_base_url", "https://s.jina.ai")
	v.SetDefault("retrieval.top_k", 4)
	v.SetDefault("retrieval.chunk_chars", 1200)
	v.SetDefault("retrieval.max_urls_per_query", 5)
	v.SetDefault("retrieval.fetch_workers", 4)
	v.SetDefault("retrieval.fetch_rate", 2.0)
	v.SetDefault("report.output_path", "report.html")
	v.SetDefault("alerts_file.path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
