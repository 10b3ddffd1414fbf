// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/cborstream/cmd/cborstream/cli"
	"github.com/bureau-foundation/cborstream/lib/codec"
	"github.com/bureau-foundation/cborstream/lib/compress"
)

func diagCommand() *cli.Command {
	var hexMode bool
	var compressName string

	return &cli.Command{
		Name:    "diag",
		Summary: "Print CBOR as diagnostic notation",
		Description: `Read a CBOR stream from stdin (or a file argument) and print each
item in diagnostic notation (RFC 8949 section 8), one item per line.

The input may be a single item or a CBOR sequence; items are printed
in order until the input is exhausted. A decoding failure reports the
byte offset of the item that could not be parsed; items before the
failure are still printed.`,
		Usage: "cborstream diag [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("diag", pflag.ContinueOnError)
			flagSet.BoolVarP(&hexMode, "hex", "x", false, "input is hex-encoded (whitespace allowed)")
			flagSet.StringVarP(&compressName, "decompress", "z", "none", "decompress input: none, lz4, or zstd")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Inspect an encoded file",
				Command:     "cborstream diag events.cbor",
			},
			{
				Description: "Inspect hex pasted from a log",
				Command:     "echo '9f 01 02 03 ff' | cborstream diag -x",
			},
			{
				Description: "Inspect a compressed stream",
				Command:     "cborstream diag -z zstd rows.cbor.zst",
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
				return fmt.Errorf("diag takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return diagnoseSequence(data, os.Stdout)
		},
	}
}

// diagnoseSequence prints each item of a CBOR sequence in diagnostic
// notation. On a malformed item it reports the byte offset where
// decoding stopped, after printing the items that preceded it.
func diagnoseSequence(data []byte, out io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected CBOR data")
	}

	offset := 0
	rest := data
	for len(rest) > 0 {
		notation, remaining, err := codec.DiagnoseFirst(rest)
		if err != nil {
			return fmt.Errorf("malformed CBOR at byte offset %d: %w", offset, err)
		}
		fmt.Fprintln(out, notation)
		offset += len(rest) - len(remaining)
		rest = remaining
	}
	return nil
}
