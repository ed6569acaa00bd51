package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds everything the wiring layer needs: where the database lives,
// the engine defaults and the log level.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
}

type EngineConfig struct {
	DefaultPageSize  int `mapstructure:"default_page_size"`
	DefaultChunkSize int `mapstructure:"default_chunk_size"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file plus QUERYMAP_-prefixed
// environment variables. A missing file is fine; defaults apply underneath
// both sources.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("QUERYMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrap(err, "unable to read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.dsn", "postgres://localhost:5432/querymap?sslmode=disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("engine.default_page_size", 15)
	v.SetDefault("engine.default_chunk_size", 100)
	v.SetDefault("logging.level", "info")
}

// LogLevel parses the configured level, falling back to info.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
