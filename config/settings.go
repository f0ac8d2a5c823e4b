package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds runtime configuration read from the environment.
// All variables are prefixed VITRINE_.
type Settings struct {
	DBPath string `envconfig:"DB_PATH" default:"./vitrine-db"`

	// PGDSN switches the product store to PostgreSQL when non-empty.
	PGDSN string `envconfig:"PG_DSN" default:""`

	EmbeddingHost    string        `envconfig:"EMBEDDING_HOST" default:"http://localhost:9400"`
	EmbeddingModel   string        `envconfig:"EMBEDDING_MODEL" default:"google/siglip-base-patch16-384"`
	EmbeddingDim     int           `envconfig:"EMBEDDING_DIM" default:"768"`
	DownloadTimeout  time.Duration `envconfig:"DOWNLOAD_TIMEOUT" default:"10s"`
	InferenceTimeout time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadSettings reads configuration from VITRINE_-prefixed environment
// variables.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("vitrine", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
