// Package config loads application configuration from defaults, an optional
// config file, and environment variables via viper.
package config

import (
	"github.com/spf13/viper"

	"github.com/jonesrussell/wikirev/internal/dataset"
	"github.com/jonesrussell/wikirev/internal/export"
	"github.com/jonesrussell/wikirev/internal/logger"
)

// Default locations.
const (
	// DefaultDataDir is the default archive storage root.
	DefaultDataDir = "data"
	// DefaultOutputDir is the default dataset output directory.
	DefaultOutputDir = "datasets"
)

// App holds application-level settings.
type App struct {
	// DataDir is the archive storage root. Always passed explicitly into
	// the components that use it.
	DataDir string `yaml:"data_dir"`
	// OutputDir is where combined dataset files are written.
	OutputDir string `yaml:"output_dir"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// Config is the full application configuration.
type Config struct {
	App     App            `yaml:"app"`
	Logger  logger.Config  `yaml:"logger"`
	Export  export.Config  `yaml:"export"`
	Dataset dataset.Config `yaml:"dataset"`
}

// Load assembles the configuration from viper's current state. Defaults are
// registered by the root command before this runs.
func Load() (*Config, error) {
	cfg := &Config{
		App: App{
			DataDir:   viper.GetString("app.data_dir"),
			OutputDir: viper.GetString("app.output_dir"),
			Debug:     viper.GetBool("app.debug"),
		},
		Logger: logger.Config{
			Level:       viper.GetString("logger.level"),
			Development: viper.GetBool("logger.development"),
			Encoding:    viper.GetString("logger.encoding"),
		},
		Export: export.Config{
			Endpoint:       viper.GetString("export.endpoint"),
			UserAgent:      viper.GetString("export.user_agent"),
			RequestTimeout: viper.GetDuration("export.request_timeout"),
			MaxRetries:     viper.GetUint64("export.max_retries"),
		}.WithDefaults(),
		Dataset: dataset.Config{
			BatchSize:   viper.GetInt("dataset.batch_size"),
			IncludeText: viper.GetBool("dataset.include_text"),
		}.WithDefaults(),
	}

	if cfg.App.DataDir == "" {
		cfg.App.DataDir = DefaultDataDir
	}
	if cfg.App.OutputDir == "" {
		cfg.App.OutputDir = DefaultOutputDir
	}
	if cfg.App.Debug {
		cfg.Logger.Level = "debug"
	}

	return cfg, nil
}
