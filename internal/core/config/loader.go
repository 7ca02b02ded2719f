package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/storage/postgres"
)

// Load reads configuration from a YAML file, then applies environment
// overrides and defaults. A missing file at path is not an error when
// path is empty.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(string) (string, bool)

func envBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func envInt(lookup lookupFunc, key string, dst *int) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("Ignoring invalid integer env var", "key", key, "value", v)
		return
	}
	*dst = n
}

func applyEnv(cfg *AppConfig, lookup lookupFunc) {
	if v, ok := lookup("GEMINI_API_KEY"); ok && v != "" {
		cfg.AI.APIKey = v
	}
	if v, ok := lookup("IA_STUB"); ok {
		cfg.AI.Stub = envBool(v)
	}
	if v, ok := lookup("IA_STRICT_MODE"); ok {
		cfg.AI.StrictMode = envBool(v)
	}
	if v, ok := lookup("IA_LOG_PROMPTS"); ok {
		cfg.AI.LogPrompts = envBool(v)
	}

	ttlMS := -1
	envInt(lookup, "IA_MODELS_CACHE_TTL_MS", &ttlMS)
	if ttlMS > 0 {
		cfg.AI.CatalogTTL = time.Duration(ttlMS) * time.Millisecond
	}
	envInt(lookup, "IA_MAX_INPUT_CHARS", &cfg.AI.MaxInputChars)
	envInt(lookup, "IA_LOG_MAX", &cfg.AI.LogMax)
	envInt(lookup, "IA_MAX_TRECHOS", &cfg.AI.MaxExcerpts)
	envInt(lookup, "PORT", &cfg.Server.Port)

	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		cfg.Database.URL = v
	}
	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		cfg.Redis.URL = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 5 * time.Minute
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	ai := &cfg.AI
	if ai.Backend == "" {
		ai.Backend = "gemini"
	}
	if ai.Timeout == 0 {
		ai.Timeout = 60 * time.Second
	}
	if ai.CatalogTTL == 0 {
		ai.CatalogTTL = 5 * time.Minute
	}
	if ai.MaxInputChars <= 0 {
		ai.MaxInputChars = 120000
	}
	ai.MaxInputChars = max(ai.MaxInputChars, 1000)
	if ai.LogMax <= 0 {
		ai.LogMax = 2000
	}
	ai.LogMax = max(ai.LogMax, 500)
	if ai.MaxExcerpts <= 0 {
		ai.MaxExcerpts = 8
	}
	if len(ai.OfficeTables) == 0 {
		ai.OfficeTables = append([]string(nil), postgres.DefaultOfficeTables...)
	}
	if ai.BatchConcurrency <= 0 {
		ai.BatchConcurrency = 4
	}
	if ai.JobTTL == 0 {
		ai.JobTTL = 24 * time.Hour
	}

	ai.Policies.Interactive = withDefault(ai.Policies.Interactive, domain.InteractivePolicy)
	ai.Policies.Document = withDefault(ai.Policies.Document, domain.DocumentPolicy)
	ai.Policies.Batch = withDefault(ai.Policies.Batch, domain.BatchPolicy)
}

// withDefault fills an unset policy; a partially set one is kept for Validate.
func withDefault(p, def domain.RetryPolicy) domain.RetryPolicy {
	if p == (domain.RetryPolicy{}) {
		return def
	}
	if p.BaseDelay == 0 {
		p.BaseDelay = def.BaseDelay
	}
	return p
}

// Validate checks values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	var errs []error
	for name, p := range map[string]domain.RetryPolicy{
		"interactive": c.AI.Policies.Interactive,
		"document":    c.AI.Policies.Document,
		"batch":       c.AI.Policies.Batch,
	} {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("ai.policies.%s: %w", name, err))
		}
	}
	for _, t := range c.AI.OfficeTables {
		if err := postgres.ValidateTableName(t); err != nil {
			errs = append(errs, fmt.Errorf("ai.office_tables: %w", err))
		}
	}
	return errors.Join(errs...)
}
