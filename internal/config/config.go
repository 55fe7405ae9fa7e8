package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Sales   SalesConfig   `yaml:"sales" mapstructure:"sales"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig points at the static input files.
type DataConfig struct {
	Boundaries string `yaml:"boundaries" mapstructure:"boundaries"`
	Stations   string `yaml:"stations" mapstructure:"stations"`
	SalesDir   string `yaml:"sales_dir" mapstructure:"sales_dir"`
	Manifest   string `yaml:"manifest" mapstructure:"manifest"`
}

// MapConfig holds the initial map view.
type MapConfig struct {
	CenterLat float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom      int     `yaml:"zoom" mapstructure:"zoom"`
	Width     int     `yaml:"width" mapstructure:"width"`
	Height    int     `yaml:"height" mapstructure:"height"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// SessionConfig configures where per-session quarter selections live.
type SessionConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// SalesConfig configures the quarterly sales table cache.
type SalesConfig struct {
	CacheEntries int `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTLMins int `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EVMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.boundaries", "data/Toronto2.geojson")
	v.SetDefault("data.stations", "data/Toronto_City_EV_Chargers_WGS84.geojson")
	v.SetDefault("data.sales_dir", "data/ev_sales")
	v.SetDefault("data.manifest", "")
	v.SetDefault("map.center_lat", 43.7)
	v.SetDefault("map.center_lon", -79.4)
	v.SetDefault("map.zoom", 10)
	v.SetDefault("map.width", 800)
	v.SetDefault("map.height", 600)
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("session.driver", "memory")
	v.SetDefault("session.dsn", "evmap-sessions.db")
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("sales.cache_entries", 10)
	v.SetDefault("sales.cache_ttl_mins", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it runs.
func (c *Config) Validate(command string) error {
	var problems []string

	if c.Data.Boundaries == "" {
		problems = append(problems, "data.boundaries is required")
	}
	if c.Data.Stations == "" {
		problems = append(problems, "data.stations is required")
	}
	if c.Data.SalesDir == "" && c.Data.Manifest == "" {
		problems = append(problems, "data.sales_dir or data.manifest is required")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 20 {
		problems = append(problems, fmt.Sprintf("map.zoom must be within 0..20, got %d", c.Map.Zoom))
	}

	if command == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, fmt.Sprintf("server.port must be within 1..65535, got %d", c.Server.Port))
		}
		switch c.Session.Driver {
		case "memory":
		case "sqlite":
			if c.Session.DSN == "" {
				problems = append(problems, "session.dsn is required for the sqlite driver")
			}
		default:
			problems = append(problems, fmt.Sprintf("session.driver must be memory or sqlite, got %q", c.Session.Driver))
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
