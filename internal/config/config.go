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
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Chroma     ChromaConfig     `yaml:"chroma" mapstructure:"chroma"`
	Embedding  EmbeddingConfig  `yaml:"embedding" mapstructure:"embedding"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Reader     ReaderConfig     `yaml:"reader" mapstructure:"reader"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" mapstructure:"retrieval"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Ingest     IngestConfig     `yaml:"ingest" mapstructure:"ingest"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the profile store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ChromaConfig holds vector index settings. Each source gets its own
// collection; the prefix is prepended to the source name.
type ChromaConfig struct {
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	CollectionPrefix string `yaml:"collection_prefix" mapstructure:"collection_prefix"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EmbeddingConfig holds settings for the OpenAI-compatible embedding API.
type EmbeddingConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	Model      string  `yaml:"model" mapstructure:"model"`
	Dimensions int     `yaml:"dimensions" mapstructure:"dimensions"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst  int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// AnthropicConfig holds Anthropic API settings for generative extraction.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ReaderConfig holds the URL-to-text reader API settings.
type ReaderConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// RetrievalConfig configures field-group retrieval plans.
type RetrievalConfig struct {
	// PlanFile optionally points at a YAML file overriding the built-in
	// per-field-group retrieval plans.
	PlanFile string `yaml:"plan_file" mapstructure:"plan_file"`
}

// ExtractionConfig configures the generative extraction calls.
type ExtractionConfig struct {
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens       int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	ContextChars    int     `yaml:"context_chars" mapstructure:"context_chars"`
	ShortDescChars  int     `yaml:"short_desc_chars" mapstructure:"short_desc_chars"`
	LongDescChars   int     `yaml:"long_desc_chars" mapstructure:"long_desc_chars"`
	ShortDescTokens int64   `yaml:"short_desc_tokens" mapstructure:"short_desc_tokens"`
	LongDescTokens  int64   `yaml:"long_desc_tokens" mapstructure:"long_desc_tokens"`
}

// ClassifierConfig configures the hierarchical industry matcher. The
// thresholds are empirically tuned cosine-similarity floors, not derived.
type ClassifierConfig struct {
	TaxonomyCSV          string  `yaml:"taxonomy_csv" mapstructure:"taxonomy_csv"`
	SectorThreshold      float64 `yaml:"sector_threshold" mapstructure:"sector_threshold"`
	SubIndustryThreshold float64 `yaml:"sub_industry_threshold" mapstructure:"sub_industry_threshold"`
	IndustryThreshold    float64 `yaml:"industry_threshold" mapstructure:"industry_threshold"`
}

// IngestConfig configures text chunking at ingestion.
type IngestConfig struct {
	ChunkWords   int `yaml:"chunk_words" mapstructure:"chunk_words"`
	OverlapWords int `yaml:"overlap_words" mapstructure:"overlap_words"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("PROFILEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "profilegen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("chroma.base_url", "http://localhost:8000")
	v.SetDefault("chroma.collection_prefix", "fusion")
	v.SetDefault("chroma.timeout_secs", 30)
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.rate_per_sec", 10)
	v.SetDefault("embedding.rate_burst", 20)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("reader.base_url", "https://r.jina.ai")
	v.SetDefault("extraction.temperature", 0.2)
	v.SetDefault("extraction.max_tokens", 500)
	v.SetDefault("extraction.context_chars", 2000)
	v.SetDefault("extraction.short_desc_chars", 2500)
	v.SetDefault("extraction.long_desc_chars", 4000)
	v.SetDefault("extraction.short_desc_tokens", 100)
	v.SetDefault("extraction.long_desc_tokens", 400)
	v.SetDefault("classifier.taxonomy_csv", "industry_classification.csv")
	v.SetDefault("classifier.sector_threshold", 0.30)
	v.SetDefault("classifier.sub_industry_threshold", 0.38)
	v.SetDefault("classifier.industry_threshold", 0.30)
	v.SetDefault("ingest.chunk_words", 400)
	v.SetDefault("ingest.overlap_words", 50)

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
