/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/datagen/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with a generated API key",
	Long: `Initialize datagen for local use.

This command will:
- Write a config file with defaults and a freshly generated API key
- Create the data directory

Examples:
	  datagen init
	  datagen init --config ./datagen.yaml --data-dir ./data --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		cfg, created, err := initializeConfig(configPath, dataDir, force)
		if err != nil {
			return err
		}
		if !created {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cmd.Printf("Wrote config to %s\n", configPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("API key: %s\n", cfg.Server.APIKey)
		return nil
	},
}

// initializeConfig bootstraps the config file unless one exists and force is unset
func initializeConfig(configPath, dataDir string, force bool) (*config.Config, bool, error) {
	if config.ConfigExists(configPath) && !force {
		return nil, false, nil
	}

	cfg, err := config.BootstrapConfig(configPath, dataDir)
	if err != nil {
		return nil, false, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, false, errors.Wrap(err, "failed to create data directory")
	}
	return cfg, true, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
