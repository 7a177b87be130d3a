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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Sea      SeaConfig      `yaml:"sea" mapstructure:"sea"`
	Geology  GeologyConfig  `yaml:"geology" mapstructure:"geology"`
	Player   PlayerConfig   `yaml:"player" mapstructure:"player"`
	Simulate SimulateConfig `yaml:"simulate" mapstructure:"simulate"`
	Survey   SurveyConfig   `yaml:"survey" mapstructure:"survey"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend. The pool fields only
// apply to the postgres driver.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// MapConfig sets generated world dimensions and high-ground planning.
type MapConfig struct {
	Width     int `yaml:"width" mapstructure:"width"`
	Height    int `yaml:"height" mapstructure:"height"`
	Patches   int `yaml:"patches" mapstructure:"patches"`
	PatchSize int `yaml:"patch_size" mapstructure:"patch_size"`
}

// SeaConfig bounds the sea-level cycle.
type SeaConfig struct {
	Min           float64 `yaml:"min" mapstructure:"min"`
	Max           float64 `yaml:"max" mapstructure:"max"`
	Rate          float64 `yaml:"rate" mapstructure:"rate"`
	WarningMargin float64 `yaml:"warning_margin" mapstructure:"warning_margin"`
}

// GeologyConfig points at an optional period schedule file; empty means
// the built-in schedule.
type GeologyConfig struct {
	PeriodsFile string `yaml:"periods_file" mapstructure:"periods_file"`
}

// PlayerConfig seeds the player entity for new worlds.
type PlayerConfig struct {
	Population int `yaml:"population" mapstructure:"population"`
	Vision     int `yaml:"vision" mapstructure:"vision"`
}

// SimulateConfig controls the century loop defaults.
type SimulateConfig struct {
	Centuries int `yaml:"centuries" mapstructure:"centuries"`
	TPS       int `yaml:"tps" mapstructure:"tps"`
}

// SurveyConfig controls the multi-seed terrain survey.
type SurveyConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	Centuries   int `yaml:"centuries" mapstructure:"centuries"`
}

// ExportConfig sets output locations for exports and reports.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields a command mode depends on. Modes:
// "world" (generate/simulate/inspect), "survey", "export".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}

	switch mode {
	case "world":
		if c.Map.Width < 1 || c.Map.Height < 1 {
			problems = append(problems, "map dimensions must be >= 1")
		}
		if c.Map.PatchSize > c.Map.Width || c.Map.PatchSize > c.Map.Height {
			problems = append(problems, "map.patch_size must fit inside the map")
		}
		if c.Sea.Min >= c.Sea.Max {
			problems = append(problems, "sea.min must be below sea.max")
		}
		if c.Sea.Rate <= 0 {
			problems = append(problems, "sea.rate must be > 0")
		}
		if c.Sea.WarningMargin < 0 {
			problems = append(problems, "sea.warning_margin must be >= 0")
		}
		if c.Simulate.TPS < 1 {
			problems = append(problems, "simulate.tps must be >= 1")
		}
	case "survey":
		if c.Survey.Concurrency < 1 || c.Survey.Concurrency > 32 {
			problems = append(problems, "survey.concurrency must be between 1 and 32")
		}
		if c.Survey.Centuries < 1 {
			problems = append(problems, "survey.centuries must be >= 1")
		}
	case "export":
		if c.Export.Dir == "" {
			problems = append(problems, "export.dir is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CIVILZONES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "civilzones.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("map.width", 250)
	v.SetDefault("map.height", 250)
	v.SetDefault("map.patches", 12)
	v.SetDefault("map.patch_size", 5)
	v.SetDefault("sea.min", 0.5)
	v.SetDefault("sea.max", 6.5)
	v.SetDefault("sea.rate", 0.1)
	v.SetDefault("sea.warning_margin", 0.5)
	v.SetDefault("player.population", 10)
	v.SetDefault("player.vision", 3)
	v.SetDefault("simulate.centuries", 10)
	v.SetDefault("simulate.tps", 4)
	v.SetDefault("survey.concurrency", 4)
	v.SetDefault("survey.centuries", 50)
	v.SetDefault("export.dir", ".")
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
