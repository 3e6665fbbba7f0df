/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/datagen/pkg/api"
	"github.com/ssargent/datagen/pkg/config"
	"github.com/ssargent/datagen/pkg/log"
	"github.com/ssargent/datagen/pkg/storage"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the datagen REST API server",
	Long: `Start the REST API server for encoding and storing records.

Records posted to the API are stored in the pebble store and then journaled
to the record log. Every request must carry the X-API-Key header.

Example:
  datagen serve --port 8080 --api-key=mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		if port, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}
		if key, _ := cmd.Flags().GetString("api-key"); key != "" {
			cfg.Server.APIKey = key
		}

		if err := resolveAPIKey(cfg, cmd.ErrOrStderr()); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg)
	},
}

// resolveAPIKey replaces "auto" with a generated key for this run.
// The key is written to w only; the log gets a fingerprint.
func resolveAPIKey(cfg *config.Config, w io.Writer) error {
	if cfg.Server.APIKey != "" && cfg.Server.APIKey != "auto" {
		return nil
	}
	key, err := config.GenerateSecureKey(32)
	if err != nil {
		return err
	}
	cfg.Server.APIKey = key
	if _, err := fmt.Fprintf(w, "generated API key for this run: %s\n", key); err != nil {
		return errors.Wrap(err, "print API key")
	}
	log.L().Warn("no API key configured, generated one for this run",
		zap.String("api_key_fingerprint", keyFingerprint(key)),
	)
	return nil
}

// keyFingerprint identifies a key in logs without revealing it
func keyFingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:4])
}

// serve opens the stores and runs the API until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create data dir")
	}

	records, err := storage.NewRecordStorage(cfg.StoragePath())
	if err != nil {
		return err
	}
	defer records.Close()

	journal, err := openJournal(cfg.RecordLogPath(), time.Second, 16<<10)
	if err != nil {
		return err
	}
	defer journal.Close()

	server := api.NewServer(records, journal, api.ServerConfig{
		Port:            cfg.Server.Port,
		Bind:            cfg.Server.Bind,
		APIKey:          cfg.Server.APIKey,
		PerfInterval:    cfg.Server.PerfInterval,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, api.NewMetrics(), log.L().Named("api"))

	log.L().Info("serving records",
		zap.String("data_dir", cfg.DataDir),
		zap.String("record_log", journal.Path()),
	)
	return server.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (default from config)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (default from config)")
}
