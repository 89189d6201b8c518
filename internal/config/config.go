// Package config loads application configuration from a config file and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/campmatch/backend/internal/recommend"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	QueryLog  QueryLogConfig  `mapstructure:"querylog"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Match     MatchConfig     `mapstructure:"match"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	StaticDir       string        `mapstructure:"static_dir"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig configures the seed import.
type CatalogConfig struct {
	SeedDir      string        `mapstructure:"seed_dir"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// QueryLogConfig configures the daily interaction log.
type QueryLogConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MatchConfig configures the ranking engine.
type MatchConfig struct {
	// Variant selects the scoring profile: "standard" (location 3, zero
	// scores excluded) or "browse" (location 4, zero scores kept).
	Variant string `mapstructure:"variant"`
	// TopN overrides the result cutoff. Zero keeps the engine default.
	TopN int `mapstructure:"top_n"`
	// FilterUnavailable drops date-conflicting campgrounds from dated
	// search results before ranking.
	FilterUnavailable bool `mapstructure:"filter_unavailable"`
}

// MatchOptions converts the configured profile into engine options.
func (m MatchConfig) MatchOptions() recommend.Options {
	var opts recommend.Options
	if strings.EqualFold(m.Variant, "browse") {
		opts = recommend.BrowseOptions()
	} else {
		opts = recommend.DefaultOptions()
	}
	if m.TopN > 0 {
		opts.Limit = m.TopN
	}
	opts.FilterUnavailable = m.FilterUnavailable
	return opts
}

// ExtractorConfig overrides the built-in vocabulary. Empty lists keep the
// defaults.
type ExtractorConfig struct {
	Gazetteer    []string `mapstructure:"gazetteer"`
	LodgingTypes []string `mapstructure:"lodging_types"`
	Activities   []string `mapstructure:"activities"`
	Amenities    []string `mapstructure:"amenities"`
}

// Vocabulary converts the configured term lists into an extractor vocabulary.
func (e ExtractorConfig) Vocabulary() recommend.Vocabulary {
	return recommend.Vocabulary{
		Gazetteer:    e.Gazetteer,
		LodgingTypes: e.LodgingTypes,
		Activities:   e.Activities,
		Amenities:    e.Amenities,
	}
}

// Load reads configuration from the given file (optional), a .env file when
// present, and CAMPMATCH_* environment variables.
func Load(configFile string) (*Config, error) {
	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CAMPMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("database.path", "data/campmatch.db")

	v.SetDefault("catalog.seed_dir", "data/seed")
	v.SetDefault("catalog.sync_interval", 5*time.Minute)

	v.SetDefault("querylog.dir", "logs")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("match.variant", "standard")
	v.SetDefault("match.top_n", 0)
	v.SetDefault("match.filter_unavailable", false)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	switch strings.ToLower(c.Match.Variant) {
	case "standard", "browse":
	default:
		return fmt.Errorf("invalid match variant: %q", c.Match.Variant)
	}
	if c.Catalog.SyncInterval < time.Second {
		return fmt.Errorf("catalog sync interval too small: %s", c.Catalog.SyncInterval)
	}
	return nil
}
