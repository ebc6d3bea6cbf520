package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rosterflow/rosterflow/internal/config"
	"github.com/rosterflow/rosterflow/internal/parser"
	"github.com/rosterflow/rosterflow/internal/storage"
	"github.com/spf13/viper"
)

// initStorage opens the database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// parserConfig assembles the parser configuration from viper.
func parserConfig() parser.Config {
	cfg := parser.Config{
		Provider:    viper.GetString("parser.provider"),
		APIKey:      viper.GetString("parser.api_key"),
		Model:       viper.GetString("parser.model"),
		MaxRetries:  viper.GetInt("parser.max_retries"),
		RateLimit:   viper.GetInt("parser.rate_limit"),
		Temperature: viper.GetFloat64("parser.temperature"),
		MaxTokens:   viper.GetInt("parser.max_tokens"),
		CacheTTL:    viper.GetDuration("parser.cache_ttl"),
		RetryDelay:  time.Second,
	}
	if cfg.Provider == "" {
		cfg.Provider = "anthropic"
	}
	return cfg
}

// minConfidence returns the confidence cutoff below which a parsed item
// is never offered for review.
func minConfidence() float64 {
	viper.SetDefault("parser.min_confidence", 0.5)
	return viper.GetFloat64("parser.min_confidence")
}
