// Package cmd implements the command-line interface for wikirev.
// It provides the root command and subcommands for archiving wiki page
// revisions and materializing the archive into a dataset.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	archivecmd "github.com/jonesrussell/wikirev/cmd/archive"
	datasetcmd "github.com/jonesrussell/wikirev/cmd/dataset"
	"github.com/jonesrussell/wikirev/internal/config"
	"github.com/jonesrussell/wikirev/internal/dataset"
	"github.com/jonesrussell/wikirev/internal/export"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the wikirev CLI.
	rootCmd = &cobra.Command{
		Use:   "wikirev",
		Short: "Archive wiki page revisions and build datasets from them",
		Long: `wikirev downloads the revision history of wiki articles into a
date-partitioned on-disk archive and materializes that archive into a
single columnar dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wikirev version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(archivecmd.Command())
	rootCmd.AddCommand(datasetcmd.Command())
}

// initConfig reads the config file and environment variables into viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("wikirev")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// The config file is optional; defaults and environment variables
	// cover the full surface.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config file: %v\n", err)
		}
	}

	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"data_dir":   config.DefaultDataDir,
		"output_dir": config.DefaultOutputDir,
		"debug":      false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "console",
	})

	viper.SetDefault("export", map[string]any{
		"endpoint":        export.DefaultEndpoint,
		"user_agent":      "",
		"request_timeout": "30s",
		"max_retries":     3,
	})

	viper.SetDefault("dataset", map[string]any{
		"batch_size":   dataset.DefaultBatchSize,
		"include_text": false,
	})
}
