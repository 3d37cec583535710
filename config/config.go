package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	// Storage
	BucketRoot string // root URI for derived job paths, e.g. gs://my-bucket
	DataDir    string // local directory holding raw shards and durable records

	// Job
	JobBaseName string // base name for new job identities

	// Pipeline spec
	SpecPath string // optional YAML pipeline spec

	// Shards
	AllShards bool // process every discovered shard instead of only the first

	// History
	HistoryDSN string // optional Postgres DSN for the run-history repository
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		BucketRoot:  getEnv("PIPELINE_BUCKET", "gs://article-classifier-ml"),
		DataDir:     getEnv("PIPELINE_DATA_DIR", "data"),
		JobBaseName: getEnv("PIPELINE_JOB_NAME", "article_classifier"),
		SpecPath:    getEnv("PIPELINE_SPEC", "pipeline.yaml"),
		AllShards:   getEnv("PIPELINE_ALL_SHARDS", "true") == "true",
		HistoryDSN:  getEnv("PIPELINE_HISTORY_DSN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
