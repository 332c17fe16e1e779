package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIToken      string
	TMDBRateQuota     int // API calls allowed per key per window (default: 50)
	TMDBRateWindowSec int // Rate limit window in seconds (default: 60)

	// Enrichment
	EnrichConcurrency int // Parallel enrichments per batch chunk (default: 4)

	// Campaign rules
	ProposalLimit int // Max open propositions per user (default: 3)
	VoteLimit     int // Max votes per user (default: 3)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/cinevote.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_RATE_QUOTA", 50)
	viper.SetDefault("TMDB_RATE_WINDOW_SEC", 60)
	viper.SetDefault("ENRICH_CONCURRENCY", 4)
	viper.SetDefault("PROPOSAL_LIMIT", 3)
	viper.SetDefault("VOTE_LIMIT", 3)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "cinevote")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TMDBAPIToken:      viper.GetString("TMDB_API_TOKEN"),
		TMDBRateQuota:     viper.GetInt("TMDB_RATE_QUOTA"),
		TMDBRateWindowSec: viper.GetInt("TMDB_RATE_WINDOW_SEC"),

		EnrichConcurrency: viper.GetInt("ENRICH_CONCURRENCY"),

		ProposalLimit: viper.GetInt("PROPOSAL_LIMIT"),
		VoteLimit:     viper.GetInt("VOTE_LIMIT"),

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "cinevote.db"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.TMDBAPIToken == "" {
		return nil, fmt.Errorf("TMDB_API_TOKEN is required")
	}
	if config.TMDBRateQuota <= 0 {
		return nil, fmt.Errorf("TMDB_RATE_QUOTA must be positive")
	}
	if config.EnrichConcurrency <= 0 {
		return nil, fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}

	return config, nil
}
