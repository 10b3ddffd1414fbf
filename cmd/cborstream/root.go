// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/bureau-foundation/cborstream/cmd/cborstream/cli"
)

// rootCommand returns the "cborstream" command tree.
func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "cborstream",
		Summary: "Produce and inspect streaming CBOR",
		Description: `Tools for producing and inspecting CBOR item streams.

The encode subcommand converts JSON, YAML, or JSONC input to CBOR
through the streaming writer: containers are emitted head-first, with
definite lengths when the input is materialized and indefinite lengths
in token-streaming mode. The inspection subcommands (diag, validate,
digest) operate on existing CBOR streams.

All subcommands accept an optional trailing file path argument. When
provided, input is read from the file instead of stdin.`,
		Subcommands: []*cli.Command{
			encodeCommand(),
			diagCommand(),
			validateCommand(),
			digestCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Encode JSON to CBOR",
				Command:     "echo '{\"action\":\"status\"}' | cborstream encode > request.cbor",
			},
			{
				Description: "Stream a large JSON document without materializing it",
				Command:     "cborstream encode --stream events.json > events.cbor",
			},
			{
				Description: "Inspect CBOR structure with diagnostic notation",
				Command:     "cborstream diag events.cbor",
			},
			{
				Description: "Compress and fingerprint an encoded stream",
				Command:     "cborstream encode --compress zstd --digest rows.json > rows.cbor.zst",
			},
		},
	}
}
