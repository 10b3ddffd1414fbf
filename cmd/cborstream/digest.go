// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/cborstream/cmd/cborstream/cli"
	"github.com/bureau-foundation/cborstream/lib/binhash"
	"github.com/bureau-foundation/cborstream/lib/compress"
)

func digestCommand() *cli.Command {
	var check string
	var compressName string

	return &cli.Command{
		Name:    "digest",
		Summary: "Print the BLAKE3 digest of a CBOR stream",
		Description: `Compute the BLAKE3 digest of a stream read from stdin (or a file
argument) and print it as lowercase hex. The input is hashed as-is;
with --decompress, the decompressed bytes are hashed instead, so the
digest matches what "encode --digest" reported before compression was
applied — use plain digest (no --decompress) to verify the compressed
artifact itself.

With --check, compare against an expected digest instead of printing:
silent success, or a mismatch report on stderr and exit code 1.

The input is streamed through the hash function; arbitrarily large
files work in constant memory.`,
		Usage: "cborstream digest [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("digest", pflag.ContinueOnError)
			flagSet.StringVar(&check, "check", "", "expected hex digest to verify against")
			flagSet.StringVarP(&compressName, "decompress", "z", "none", "decompress input before hashing: none, lz4, or zstd")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Fingerprint an encoded file",
				Command:     "cborstream digest events.cbor",
			},
			{
				Description: "Verify an artifact against a recorded digest",
				Command:     "cborstream digest --check \"$(cat events.cbor.b3)\" events.cbor",
			},
		},
		Run: func(args []string) error {
			codecName, err := compress.ParseCodec(compressName)
			if err != nil {
				return err
			}

			var expected binhash.Digest
			if check != "" {
				expected, err = binhash.ParseDigest(check)
				if err != nil {
					return err
				}
			}

			input, remainingArgs, err := openInput(args)
			if err != nil {
				return err
			}
			defer input.Close()
			if len(remainingArgs) > 0 {
				return fmt.Errorf("digest takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}

			return digestStream(input, codecName, check != "", expected, os.Stdout, os.Stderr)
		},
	}
}

// digestStream hashes the (optionally decompressed) input and either
// prints the digest or verifies it against expected.
func digestStream(input io.Reader, codecName compress.Codec, verify bool, expected binhash.Digest, out, errOut io.Writer) error {
	reader, err := compress.NewReader(input, codecName)
	if err != nil {
		return err
	}
	defer reader.Close()

	actual, err := binhash.HashReader(reader)
	if err != nil {
		return err
	}

	if !verify {
		fmt.Fprintln(out, binhash.FormatDigest(actual))
		return nil
	}
	if actual != expected {
		fmt.Fprintf(errOut, "digest mismatch:\n  expected %s\n  actual   %s\n",
			binhash.FormatDigest(expected), binhash.FormatDigest(actual))
		return &cli.ExitError{Code: 1}
	}
	return nil
}
