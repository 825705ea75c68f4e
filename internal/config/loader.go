package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "consilium.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "CONSILIUM_PORT")
	setString(&cfg.Server.CORSOrigin, "CONSILIUM_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "CONSILIUM_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "CONSILIUM_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "CONSILIUM_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "CONSILIUM_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "CONSILIUM_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.Logging.Level, "CONSILIUM_LOG_LEVEL")
	setString(&cfg.Logging.Service, "CONSILIUM_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "CONSILIUM_LOG_ASYNC")
	setInt64(&cfg.Cache.MaxSizeMB, "CONSILIUM_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.OutcomeTTL, "CONSILIUM_CACHE_OUTCOME_TTL")

	// Consensus
	setFloat64(&cfg.Consensus.Threshold, "CONSILIUM_CONSENSUS_THRESHOLD")
	setFloat64(&cfg.Consensus.MinParticipation, "CONSILIUM_MIN_PARTICIPATION")
	setFloat64(&cfg.Consensus.AutoResolutionThreshold, "CONSILIUM_AUTO_RESOLUTION_THRESHOLD")
	setInt(&cfg.Consensus.MaxResolutionAttempts, "CONSILIUM_MAX_RESOLUTION_ATTEMPTS")
	setFloat64(&cfg.Consensus.HumanEscalationThreshold, "CONSILIUM_ESCALATION_THRESHOLD")
	setBool(&cfg.Consensus.EnableVeto, "CONSILIUM_ENABLE_VETO")

	// Panel
	setDuration(&cfg.Panel.RoundTimeout, "CONSILIUM_ROUND_TIMEOUT")
	setInt(&cfg.Panel.MaxParallel, "CONSILIUM_MAX_PARALLEL")
	setInt(&cfg.Panel.HistoryLimit, "CONSILIUM_HISTORY_LIMIT")

	// Telemetry
	setBool(&cfg.Telemetry.Enabled, "CONSILIUM_TELEMETRY_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "CONSILIUM_TELEMETRY_ENDPOINT")
}

// validate checks that required fields are set and the consensus knobs are
// inside their legal ranges.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	for _, knob := range []struct {
		name string
		v    float64
	}{
		{"consensus.threshold", cfg.Consensus.Threshold},
		{"consensus.min_participation", cfg.Consensus.MinParticipation},
		{"consensus.auto_resolution_threshold", cfg.Consensus.AutoResolutionThreshold},
		{"consensus.human_escalation_threshold", cfg.Consensus.HumanEscalationThreshold},
	} {
		if knob.v < 0 || knob.v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", knob.name, knob.v)
		}
	}
	if cfg.Consensus.MaxResolutionAttempts < 1 {
		return errors.New("consensus.max_resolution_attempts must be >= 1")
	}
	if cfg.Panel.RoundTimeout <= 0 {
		return errors.New("panel.round_timeout must be positive")
	}
	if cfg.Panel.MaxParallel < 1 {
		return errors.New("panel.max_parallel must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
