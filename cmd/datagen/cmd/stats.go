/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/datagen/pkg/log"
	"github.com/ssargent/datagen/pkg/model"
	"github.com/ssargent/datagen/pkg/store"
	"go.uber.org/zap"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts in the record log",
	Long: `Scan the record log and print the number of records and payload bytes
per kind.

Example:
  datagen stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)

		stats, err := logStats(cfg.RecordLogPath())
		if err != nil {
			return err
		}

		for _, kind := range model.Kinds {
			cmd.Printf("%-8s %d\n", kind, stats.PerKind[kind])
		}
		cmd.Printf("total    %d records, %d payload bytes\n", stats.TotalFrames, stats.PayloadBytes)
		return nil
	},
}

// logStats indexes the record log at path
func logStats(path string) (*store.IndexStats, error) {
	reader, err := store.NewLogReader(store.LogReaderConfig{FilePath: path})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	idx := store.NewOffsetIndex()
	if err := idx.BuildFromLog(reader); err != nil {
		return nil, err
	}
	return idx.Stats(), nil
}

// openJournal repairs a torn tail left by a crash, then opens the record log for appending
func openJournal(path string, fsync time.Duration, bufferSize int) (*store.LogWriter, error) {
	result, err := store.Recover(path)
	if err != nil {
		return nil, err
	}
	if result.Truncated() {
		log.L().Warn("truncated damaged record log tail",
			zap.String("path", path),
			zap.Int64("frames_validated", result.FramesValidated),
			zap.Int64("bytes_truncated", result.BytesTruncated),
			zap.Duration("recovery_time", result.RecoveryTime),
		)
	}

	return store.NewLogWriter(store.LogWriterConfig{
		FilePath:      path,
		FsyncInterval: fsync,
		BufferSize:    bufferSize,
	})
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
