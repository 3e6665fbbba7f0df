/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/datagen/pkg/config"
	"github.com/ssargent/datagen/pkg/log"
	"go.uber.org/zap"
)

type configKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "datagen",
	Short: "datagen - fixed-layout binary records for users, cards and merchants",
	Long: `datagen generates, encodes, stores and serves User, Card and Merchant
records in a compact little-endian binary layout.

Records can be journaled to an append-only record log, kept in a pebble
store keyed by KSUID, or encoded on the fly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := log.InitLogger(cfg.Logging)
		if err != nil {
			return errors.Wrap(err, "failed to init logger")
		}
		log.ReplaceGlobals(logger)

		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.GetDefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory (overrides the config file)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file when present and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, err := log.ParseLevel(level); err != nil {
			return nil, err
		}
		cfg.Logging.Level = level
	}

	// relative log files live with the data
	if name := cfg.Logging.File.Filename; name != "" && !filepath.IsAbs(name) {
		cfg.Logging.File.Filename = filepath.Join(cfg.DataDir, name)
	}
	return cfg, nil
}

// configFrom returns the config loaded by the root command
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	log.L().Warn("config not found in context, using defaults", zap.String("command", cmd.Name()))
	return config.DefaultConfig()
}
