package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "profilegen.db", cfg.Store.DatabaseURL)

	assert.Equal(t, "http://localhost:8000", cfg.Chroma.BaseURL)
	assert.Equal(t, "fusion", cfg.Chroma.CollectionPrefix)

	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 10.0, cfg.Embedding.RatePerSec)

	assert.Equal(t, 0.2, cfg.Extraction.Temperature)
	assert.Equal(t, int64(500), cfg.Extraction.MaxTokens)
	assert.Equal(t, 2000, cfg.Extraction.ContextChars)
	assert.Equal(t, 2500, cfg.Extraction.ShortDescChars)
	assert.Equal(t, 4000, cfg.Extraction.LongDescChars)

	assert.Equal(t, 0.30, cfg.Classifier.SectorThreshold)
	assert.Equal(t, 0.38, cfg.Classifier.SubIndustryThreshold)
	assert.Equal(t, 0.30, cfg.Classifier.IndustryThreshold)

	assert.Equal(t, 400, cfg.Ingest.ChunkWords)
	assert.Equal(t, 50, cfg.Ingest.OverlapWords)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PROFILEGEN_STORE_DRIVER", "postgres")
	t.Setenv("PROFILEGEN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "noisy", Format: "json"}))
}
