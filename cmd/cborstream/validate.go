// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/cborstream/cmd/cborstream/cli"
	"github.com/bureau-foundation/cborstream/lib/codec"
	"github.com/bureau-foundation/cborstream/lib/compress"
)

func validateCommand() *cli.Command {
	var hexMode bool
	var quiet bool
	var compressName string

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that a CBOR stream is well-formed",
		Description: `Read a CBOR stream from stdin (or a file argument) and check that it
is a well-formed sequence of CBOR items. Prints the item count on
success. On malformed input, prints the byte offset where decoding
failed and exits with code 1.

Well-formedness covers structure only: every container head has a
matching body, every indefinite-length container has its break byte,
and no item is truncated. Semantic concerns (duplicate map keys, tag
validity) are not checked.`,
		Usage: "cborstream validate [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("validate", pflag.ContinueOnError)
			flagSet.BoolVarP(&hexMode, "hex", "x", false, "input is hex-encoded (whitespace allowed)")
			flagSet.StringVarP(&compressName, "decompress", "z", "none", "decompress input: none, lz4, or zstd")
			flagSet.BoolVarP(&quiet, "quiet", "q", false, "no output; report via exit code only")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Validate an encoded file",
				Command:     "cborstream validate events.cbor",
			},
			{
				Description: "Use in a shell pipeline",
				Command:     "cborstream encode --stream events.json | cborstream validate -q && echo ok",
			},
		},
		Run: func(args []string) error {
			codecName, err := compress.ParseCodec(compressName)
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, hexMode, codecName)
			if err != nil {
				return err
			}
			if len(remainingArgs) > 0 {
				return fmt.Errorf("validate takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return validateSequence(data, quiet, os.Stdout, os.Stderr)
		},
	}
}

// validateSequence counts the well-formed items of a CBOR sequence.
// Malformed input is reported on errOut with the failing byte offset
// and surfaces as exit code 1.
func validateSequence(data []byte, quiet bool, out, errOut io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected CBOR data")
	}

	count, offset, err := countItems(data)
	if err != nil {
		if !quiet {
			fmt.Fprintf(errOut, "malformed CBOR at byte offset %d (after %d valid items): %v\n", offset, count, err)
		}
		return &cli.ExitError{Code: 1}
	}
	if !quiet {
		fmt.Fprintf(out, "%d items, %d bytes\n", count, len(data))
	}
	return nil
}

// countItems decodes the sequence item by item, returning the item
// count and, on failure, the offset of the first byte that could not
// be decoded.
func countItems(data []byte) (count, offset int, err error) {
	decoder := codec.NewDecoder(bytes.NewReader(data))

	for {
		var item codec.RawMessage
		err := decoder.Decode(&item)
		if errors.Is(err, io.EOF) {
			return count, len(data), nil
		}
		if err != nil {
			return count, decoder.NumBytesRead(), err
		}
		count++
	}
}
