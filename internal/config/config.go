// Package config loads application configuration from file and
// environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Memory  MemoryConfig  `yaml:"memory" mapstructure:"memory"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Prepare PrepareConfig `yaml:"prepare" mapstructure:"prepare"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// EngineConfig configures the analysis engine.
type EngineConfig struct {
	SourceBaseDir string `yaml:"source_base_dir" mapstructure:"source_base_dir"`
	// Seed pins the scoring jitter source; 0 seeds from the clock.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// MemoryConfig locates the domain memory document.
type MemoryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
}

// PrepareConfig configures the dataset preparation pipeline.
type PrepareConfig struct {
	RawPath string `yaml:"raw_path" mapstructure:"raw_path"`
	OutDir  string `yaml:"out_dir" mapstructure:"out_dir"`
	Limit   int    `yaml:"limit" mapstructure:"limit"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	APIKey             string   `yaml:"api_key" mapstructure:"api_key"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
}

// BatchConfig configures multi-brief processing.
type BatchConfig struct {
	MaxConcurrentBriefs int `yaml:"max_concurrent_briefs" mapstructure:"max_concurrent_briefs"`
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
	v.SetEnvPrefix("INSIGHTFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("engine.source_base_dir", "datasets/processed")
	v.SetDefault("engine.seed", 0)
	v.SetDefault("memory.path", "data/domain_memory.json")
	v.SetDefault("report.output_path", "out/research_report.md")
	v.SetDefault("prepare.raw_path", "datasets/raw/amazon.csv")
	v.SetDefault("prepare.out_dir", "datasets/processed")
	v.SetDefault("prepare.limit", 5000)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "data/insightforge.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_minute", 30)
	v.SetDefault("batch.max_concurrent_briefs", 4)
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

// Validate checks the configuration needed by the given command mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	checkStore := func() {
		switch c.Store.Driver {
		case "sqlite":
			if c.Store.SQLitePath == "" {
				problems = append(problems, "store.sqlite_path is required for the sqlite driver")
			}
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required for the postgres driver")
			}
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	}

	switch mode {
	case "analyze":
		checkStore()
		if c.Batch.MaxConcurrentBriefs < 1 || c.Batch.MaxConcurrentBriefs > 32 {
			problems = append(problems, "batch.max_concurrent_briefs must be between 1 and 32")
		}
	case "serve":
		checkStore()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.RateLimitPerMinute < 1 || c.Server.RateLimitPerMinute > 1000 {
			problems = append(problems, "server.rate_limit_per_minute must be between 1 and 1000")
		}
	case "prepare":
		if c.Prepare.Limit < 1 {
			problems = append(problems, "prepare.limit must be >= 1")
		}
	case "runs":
		checkStore()
	case "memory", "prompt":
		if c.Memory.Path == "" {
			problems = append(problems, "memory.path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
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
