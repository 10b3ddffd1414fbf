// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/cborstream/cmd/cborstream/cli"
	"github.com/bureau-foundation/cborstream/lib/binhash"
	"github.com/bureau-foundation/cborstream/lib/compress"
	"github.com/bureau-foundation/cborstream/lib/stream"
)

// encodeOptions holds the resolved flags of the "encode" command.
type encodeOptions struct {
	format      string
	streamMode  bool
	compression compress.Codec
	digest      bool
	verbose     bool
}

func encodeCommand() *cli.Command {
	var options encodeOptions
	var compressName string

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert structured input to a CBOR stream",
		Description: `Read JSON, YAML, or JSONC from stdin (or a file argument) and write
the equivalent CBOR to stdout.

By default the input is parsed whole and containers are emitted with
definite lengths, with map keys sorted for reproducible output. With
--stream (JSON only), the input is converted token by token through
the streaming writer: containers are emitted with indefinite lengths,
map keys keep their input order, and memory stays constant regardless
of document size. Streaming input may be a whitespace-separated
sequence of JSON values; each becomes an independent CBOR item.

Numbers that are integral are preserved as CBOR integers (not
floats). This matters for interoperability with consumers that use
typed numeric fields.

The output is binary. Pipe to "cborstream diag" or "xxd" to inspect.`,
		Usage: "cborstream encode [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			flagSet.StringVarP(&options.format, "format", "f", "json", "input format: json, yaml, or jsonc")
			flagSet.BoolVar(&options.streamMode, "stream", false, "token-streaming mode with indefinite-length containers (JSON only)")
			flagSet.StringVar(&compressName, "compress", "none", "compress output: none, lz4, or zstd")
			flagSet.BoolVar(&options.digest, "digest", false, "print the BLAKE3 digest of the emitted stream on stderr")
			flagSet.BoolVarP(&options.verbose, "verbose", "v", false, "log an encoding summary on stderr")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Encode JSON to CBOR",
				Command:     "echo '{\"action\":\"status\"}' | cborstream encode > request.cbor",
			},
			{
				Description: "Encode a YAML file",
				Command:     "cborstream encode --format yaml config.yaml > config.cbor",
			},
			{
				Description: "Stream a sequence of JSON events",
				Command:     "cborstream encode --stream events.json > events.cbor",
			},
			{
				Description: "Compressed output with a content digest",
				Command:     "cborstream encode --compress zstd --digest rows.json > rows.cbor.zst",
			},
		},
		Run: func(args []string) error {
			var err error
			options.compression, err = compress.ParseCodec(compressName)
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, false, compress.None)
			if err != nil {
				return err
			}
			if len(remainingArgs) > 0 {
				return fmt.Errorf("encode takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
			}
			return encodeStream(data, os.Stdout, os.Stderr, options)
		},
	}
}

// encodeStream converts data to CBOR on w, applying compression and
// digest capture per options. digestOut receives the digest line when
// --digest is set.
func encodeStream(data []byte, w io.Writer, digestOut io.Writer, options encodeOptions) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected %s data", options.format)
	}
	if options.streamMode && options.format != "json" {
		return fmt.Errorf("--stream supports only JSON input, got format %q", options.format)
	}

	// Sink chain: stream writer → compressor → (hash tee) → w. The
	// digest covers the post-compression bytes, the exact artifact a
	// consumer would verify.
	sink := w
	var hasher *binhash.Hasher
	if options.digest {
		hasher = binhash.NewHasher()
		sink = io.MultiWriter(w, hasher)
	}
	compressor, err := compress.NewWriter(sink, options.compression)
	if err != nil {
		return err
	}

	counter := &countingWriter{inner: compressor}
	writer := stream.NewWriter(counter)

	if options.streamMode {
		err = streamTokens(json.NewDecoder(bytes.NewReader(data)), writer)
	} else {
		var value any
		value, err = parseInput(data, options.format)
		if err == nil {
			err = writeValue(writer, value)
		}
	}
	if err != nil {
		compressor.Close()
		return err
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("flush compressed stream: %w", err)
	}

	if hasher != nil {
		fmt.Fprintln(digestOut, binhash.FormatDigest(hasher.Digest()))
	}
	if options.verbose {
		cli.NewCommandLogger().Info("encoded stream",
			"command", "encode",
			"format", options.format,
			"compression", options.compression.String(),
			"bytes_in", len(data),
			"bytes_out", counter.written)
	}
	return nil
}

// countingWriter counts bytes passed through to the inner writer, for
// the --verbose summary.
type countingWriter struct {
	inner   io.Writer
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.inner.Write(p)
	c.written += int64(n)
	return n, err
}

// parseInput decodes the whole input document into Go values.
func parseInput(data []byte, format string) (any, error) {
	switch format {
	case "json":
		return parseJSON(data)

	case "jsonc":
		// Strip comments and trailing commas, then parse as JSON.
		return parseJSON(jsonc.ToJSON(data))

	case "yaml":
		var value any
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		return value, nil

	default:
		return nil, fmt.Errorf("unknown input format %q (want json, yaml, or jsonc)", format)
	}
}

func parseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return convertNumbers(value), nil
}

// convertNumbers recursively walks a JSON-decoded value and converts
// json.Number to int64 or float64. Without this, json.Decoder with
// UseNumber() leaves numbers as strings that the CBOR encoder would
// encode as text instead of numeric types.
func convertNumbers(v any) any {
	switch value := v.(type) {
	case json.Number:
		return convertNumber(value)

	case map[string]any:
		for key, element := range value {
			value[key] = convertNumbers(element)
		}
		return value

	case []any:
		for index, element := range value {
			value[index] = convertNumbers(element)
		}
		return value

	default:
		return v
	}
}

// convertNumber converts one json.Number to int64 or float64.
func convertNumber(value json.Number) any {
	if integer, err := value.Int64(); err == nil {
		return integer
	}
	if float, err := value.Float64(); err == nil {
		return float
	}
	// json.Number that is neither int64 nor float64 should not
	// happen with valid JSON, but fail loudly if it does.
	panic(fmt.Sprintf("json.Number %q is neither int64 nor float64", value.String()))
}

// writeValue streams a materialized value with definite-length
// containers. Map keys are sorted here, in the CLI, for reproducible
// output — the stream layer itself emits pairs exactly as submitted.
func writeValue(w stream.ValueWriter, value any) error {
	switch v := value.(type) {
	case map[string]any:
		mapped, err := w.Map(stream.Definite(len(v)))
		if err != nil {
			return err
		}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if err := writePair(mapped, key, v[key]); err != nil {
				return err
			}
		}
		return mapped.Close()

	case []any:
		array, err := w.Array(stream.Definite(len(v)))
		if err != nil {
			return err
		}
		for _, element := range v {
			if err := writeValue(array, element); err != nil {
				return err
			}
		}
		return array.Close()

	case map[any]any:
		// yaml.v3 produces this for maps with non-string keys.
		return fmt.Errorf("unsupported map key type: only string keys can be encoded")

	default:
		return w.Write(v)
	}
}

// writePair streams one key/value pair of a materialized map.
func writePair(mapped *stream.MapWriter, key string, value any) error {
	switch v := value.(type) {
	case map[string]any:
		nested, err := mapped.Map(key, stream.Definite(len(v)))
		if err != nil {
			return err
		}
		for _, nestedKey := range slices.Sorted(maps.Keys(v)) {
			if err := writePair(nested, nestedKey, v[nestedKey]); err != nil {
				return err
			}
		}
		return nested.Close()

	case []any:
		nested, err := mapped.Array(key, stream.Definite(len(v)))
		if err != nil {
			return err
		}
		for _, element := range v {
			if err := writeValue(nested, element); err != nil {
				return err
			}
		}
		return nested.Close()

	case map[any]any:
		return fmt.Errorf("unsupported map key type: only string keys can be encoded")

	default:
		return mapped.Write(key, v)
	}
}

// streamTokens converts a sequence of JSON values to CBOR items token
// by token, emitting indefinite-length containers so that nothing is
// materialized.
func streamTokens(decoder *json.Decoder, writer *stream.Writer) error {
	decoder.UseNumber()

	count := 0
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			if count == 0 {
				return fmt.Errorf("empty input: expected JSON data")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		if err := streamValue(decoder, writer, token); err != nil {
			return err
		}
		count++
	}
}

// streamValue writes one JSON value whose first token has already
// been consumed.
func streamValue(decoder *json.Decoder, w stream.ValueWriter, token json.Token) error {
	delim, isDelim := token.(json.Delim)
	if !isDelim {
		return w.Write(scalarToken(token))
	}

	switch delim {
	case '[':
		array, err := w.Array(stream.Indefinite)
		if err != nil {
			return err
		}
		for decoder.More() {
			elementToken, err := decoder.Token()
			if err != nil {
				return fmt.Errorf("decode JSON: %w", err)
			}
			if err := streamValue(decoder, array, elementToken); err != nil {
				return err
			}
		}
		if _, err := decoder.Token(); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		return array.Close()

	case '{':
		mapped, err := w.Map(stream.Indefinite)
		if err != nil {
			return err
		}
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return fmt.Errorf("decode JSON: %w", err)
			}
			key, ok := keyToken.(string)
			if !ok {
				return fmt.Errorf("decode JSON: object key is %T, want string", keyToken)
			}
			valueToken, err := decoder.Token()
			if err != nil {
				return fmt.Errorf("decode JSON: %w", err)
			}
			if err := streamPair(decoder, mapped, key, valueToken); err != nil {
				return err
			}
		}
		if _, err := decoder.Token(); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		return mapped.Close()

	default:
		return fmt.Errorf("decode JSON: unexpected delimiter %q", delim)
	}
}

// streamPair writes one key/value pair whose value's first token has
// already been consumed.
func streamPair(decoder *json.Decoder, mapped *stream.MapWriter, key string, token json.Token) error {
	delim, isDelim := token.(json.Delim)
	if !isDelim {
		return mapped.Write(key, scalarToken(token))
	}

	switch delim {
	case '[':
		array, err := mapped.Array(key, stream.Indefinite)
		if err != nil {
			return err
		}
		for decoder.More() {
			elementToken, err := decoder.Token()
			if err != nil {
				return fmt.Errorf("decode JSON: %w", err)
			}
			if err := streamValue(decoder, array, elementToken); err != nil {
				return err
			}
		}
		if _, err := decoder.Token(); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		return array.Close()

	case '{':
		nested, err := mapped.Map(key, stream.Indefinite)
		if err != nil {
			return err
		}
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return fmt.Errorf("decode JSON: %w", err)
			}
			nestedKey, ok := keyToken.(string)
			if !ok {
				return fmt.Errorf("decode JSON: object key is %T, want string", keyToken)
			}
			valueToken, err := decoder.Token()
			if err != nil {
				return fmt.Errorf("decode JSON: %w", err)
			}
			if err := streamPair(decoder, nested, nestedKey, valueToken); err != nil {
				return err
			}
		}
		if _, err := decoder.Token(); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
		return nested.Close()

	default:
		return fmt.Errorf("decode JSON: unexpected delimiter %q", delim)
	}
}

// scalarToken converts a non-delimiter JSON token to its Go value.
func scalarToken(token json.Token) any {
	if number, ok := token.(json.Number); ok {
		return convertNumber(number)
	}
	return token
}
