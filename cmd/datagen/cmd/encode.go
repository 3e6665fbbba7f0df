/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/datagen/pkg/model"
	"gopkg.in/yaml.v3"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <kind> [document]",
	Short: "Encode one record and print it as hex",
	Long: `Encode a single record given as a YAML or JSON document and print the
encoded bytes as hex. The document is read from stdin when omitted.

Example:
  datagen encode merchant '{"name":"Shop","mcc":5411,"category":"retail_outlet"}'
  echo 'type: visa
pan: "4111111111111111"' | datagen encode card`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}

		var doc []byte
		if len(args) == 2 {
			doc = []byte(args[1])
		} else {
			doc, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "failed to read stdin")
			}
		}

		data, err := encodeDocument(kind, doc)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data)); err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cmd.PrintErrf("%s: %d bytes\n", kind, len(data))
		}
		return nil
	},
}

// encodeDocument parses doc (YAML, so JSON works too) as a record of kind and encodes it
func encodeDocument(kind model.Kind, doc []byte) ([]byte, error) {
	rec, err := model.New(kind)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(string(doc)) != "" {
		dec := yaml.NewDecoder(strings.NewReader(string(doc)))
		dec.KnownFields(true)
		if err := dec.Decode(rec); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s document", kind)
		}
	}
	return model.Encode(rec)
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolP("verbose", "v", false, "Print the encoded size to stderr")
}
