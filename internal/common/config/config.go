// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Drafts    DraftConfig     `mapstructure:"drafts"`
	Questions QuestionsConfig `mapstructure:"questions"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig points at the remote session engine.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// StorageConfig selects the draft persistence backend.
type StorageConfig struct {
	Driver string      `mapstructure:"driver"` // "file" or "redis"
	File   FileConfig  `mapstructure:"file"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DraftConfig holds draft store settings shared by all modules.
type DraftConfig struct {
	Version string `mapstructure:"version"` // storage key version tag
	TTLDays int    `mapstructure:"ttl_days"`
}

// QuestionsConfig locates the question definition documents.
type QuestionsConfig struct {
	CurrentPath  string `mapstructure:"current_path"`
	OriginalPath string `mapstructure:"original_path"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Validate checks the settings that have no workable defaults.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	switch c.Storage.Driver {
	case "file", "redis":
	default:
		return fmt.Errorf("storage.driver must be \"file\" or \"redis\", got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "redis" && c.Storage.Redis.Address == "" {
		return fmt.Errorf("storage.redis.address is required when storage.driver is redis")
	}
	return nil
}
