package config

import (
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	redisclient "github.com/augleao/frontend-dev-sub000/internal/infra/redis"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	AI       AIConfig           `yaml:"ai"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// AIConfig holds provider and orchestration settings.
type AIConfig struct {
	Backend          string        `yaml:"backend"` // gemini, openai
	APIKey           string        `yaml:"api_key"`
	BaseURL          string        `yaml:"base_url"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	Timeout          time.Duration `yaml:"timeout"`
	CatalogTTL       time.Duration `yaml:"catalog_ttl"`
	Stub             bool          `yaml:"stub"`
	MaxInputChars    int           `yaml:"max_input_chars"`
	StrictMode       bool          `yaml:"strict_mode"`
	LogPrompts       bool          `yaml:"log_prompts"`
	LogMax           int           `yaml:"log_max"`
	MaxExcerpts      int           `yaml:"max_excerpts"`
	OfficeTables     []string      `yaml:"office_tables"`
	BatchConcurrency int           `yaml:"batch_concurrency"`
	JobTTL           time.Duration `yaml:"job_ttl"`
	Policies         Policies      `yaml:"policies"`
}

// Policies holds the retry policy per call class.
type Policies struct {
	Interactive domain.RetryPolicy `yaml:"interactive"`
	Document    domain.RetryPolicy `yaml:"document"`
	Batch       domain.RetryPolicy `yaml:"batch"`
}
