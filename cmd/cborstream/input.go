// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/bureau-foundation/cborstream/lib/compress"
)

// readInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or stdin, then applies
// the requested input transformations: decompression first, hex
// decoding second (hex input is never compressed).
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller is responsible for validating that the returned
// args are acceptable (e.g., no unexpected positional arguments).
func readInput(args []string, hexMode bool, codec compress.Codec) ([]byte, []string, error) {
	data, remainingArgs, err := readRaw(args)
	if err != nil {
		return nil, nil, err
	}

	if codec != compress.None {
		reader, err := compress.NewReader(bytes.NewReader(data), codec)
		if err != nil {
			return nil, nil, err
		}
		defer reader.Close()
		data, err = io.ReadAll(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("decompress %s input: %w", codec, err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}

	return data, remainingArgs, nil
}

// readRaw reads the bytes of a trailing file argument, or stdin when
// no argument names a regular file.
func readRaw(args []string) ([]byte, []string, error) {
	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err := os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			return data, args[:length-1], nil
		}
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, args, nil
}

// openInput opens a trailing file argument for streaming reads, or
// returns stdin. The returned closer is a no-op for stdin.
func openInput(args []string) (io.ReadCloser, []string, error) {
	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			file, err := os.Open(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("open %s: %w", candidate, err)
			}
			return file, args[:length-1], nil
		}
	}
	return io.NopCloser(os.Stdin), args, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "a1 63 6b 65 79" or "a1636b6579").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
