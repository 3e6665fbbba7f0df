/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/datagen/pkg/model"
	"github.com/ssargent/datagen/pkg/store"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the records in the record log",
	Long: `Read the record log frame by frame, verify each checksum and print the
decoded records.

Formats:
  text  one line per record with its decoded fields
  hex   one line per record with the encoded payload
  json  one JSON object per line

Example:
  datagen dump --format hex --limit 10
  datagen dump --kind merchant`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.RecordLogPath()
		}

		var opts dumpOptions
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Offset, _ = cmd.Flags().GetInt64("offset")
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			opts.Kind = k
		}

		n, err := dumpLog(cmd.OutOrStdout(), path, opts)
		if err != nil {
			return err
		}
		cmd.PrintErrf("%d records\n", n)
		return nil
	},
}

// dumpOptions selects and formats the frames to print
type dumpOptions struct {
	Format string
	Offset int64      // first byte offset to consider
	Limit  int        // 0 for all
	Kind   model.Kind // 0 for every kind
}

type dumpLine struct {
	Offset int64       `json:"offset"`
	Kind   string      `json:"kind"`
	Size   uint32      `json:"size"`
	Time   time.Time   `json:"time"`
	Hex    string      `json:"hex,omitempty"`
	Record interface{} `json:"record,omitempty"`
}

// dumpLog prints the selected frames and returns how many it printed
func dumpLog(w io.Writer, path string, opts dumpOptions) (int, error) {
	switch opts.Format {
	case "", "text", "hex", "json":
	default:
		return 0, errors.Newf("unknown format %q (want text, hex or json)", opts.Format)
	}

	reader, err := store.NewLogReader(store.LogReaderConfig{FilePath: path, StartOffset: opts.Offset})
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	p := &framePrinter{w: w, enc: json.NewEncoder(w), format: opts.Format}
	if opts.Kind != 0 {
		return dumpKind(p, reader, opts)
	}

	count := 0
	for opts.Limit <= 0 || count < opts.Limit {
		at := reader.Offset()
		frame, err := reader.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, errors.Wrapf(err, "frame at offset %d", at)
		}
		if err := p.print(at, frame); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// dumpKind prints only frames of opts.Kind, located through an offset index
func dumpKind(p *framePrinter, reader *store.LogReader, opts dumpOptions) (int, error) {
	idx := store.NewOffsetIndex()
	if err := idx.BuildFromLog(reader); err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range idx.Entries(opts.Kind) {
		if opts.Limit > 0 && count >= opts.Limit {
			break
		}
		if entry.Offset < opts.Offset {
			continue
		}
		frame, err := reader.ReadAt(entry.Offset)
		if err != nil {
			return count, err
		}
		if err := p.print(entry.Offset, frame); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

type framePrinter struct {
	w      io.Writer
	enc    *json.Encoder
	format string
}

func (p *framePrinter) print(at int64, frame *store.Frame) error {
	rec, err := frame.Record()
	if err != nil {
		return errors.Wrapf(err, "decode %s at offset %d", frame.Kind, at)
	}

	switch p.format {
	case "hex":
		_, err = fmt.Fprintf(p.w, "%d\t%s\t%s\n", at, frame.Kind, hex.EncodeToString(frame.Payload))
	case "json":
		err = p.enc.Encode(dumpLine{
			Offset: at,
			Kind:   frame.Kind.String(),
			Size:   frame.Size,
			Time:   frame.Time().UTC(),
			Hex:    hex.EncodeToString(frame.Payload),
			Record: rec,
		})
	default:
		_, err = fmt.Fprintf(p.w, "%d\t%s\t%+v\n", at, frame.Kind, rec)
	}
	return err
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().String("file", "", "Record log to read (default from config)")
	dumpCmd.Flags().String("format", "text", "Output format: text, hex or json")
	dumpCmd.Flags().Int64("offset", 0, "Byte offset of the first frame")
	dumpCmd.Flags().Int("limit", 0, "Maximum records to print (0 for all)")
	dumpCmd.Flags().String("kind", "", "Only print records of this kind")
}
