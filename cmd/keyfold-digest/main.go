// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

// keyfold-digest computes canonical-key digests of structured
// documents.
//
// Usage:
//
//	keyfold-digest [flags] [file ...]
//
// Each input is parsed (JSON by default; JSONC, YAML, or CBOR by file
// extension or --format), folded into its canonical key, and printed
// as "<digest>  <name>", one line per input. With no files, a single
// document is read from stdin under the name "-". Two documents print
// the same digest exactly when they fold to equal keys, whatever
// format, field order, or numeric spelling they arrived in.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/keyfold-foundation/keyfold/lib/canon"
	"github.com/keyfold-foundation/keyfold/lib/codec"
	"github.com/keyfold-foundation/keyfold/lib/digest"
	"github.com/keyfold-foundation/keyfold/lib/version"
)

// Input formats. The zero value of options.format means "pick by file
// extension, JSON for stdin".
const (
	formatJSON  = "json"
	formatJSONC = "jsonc"
	formatYAML  = "yaml"
	formatCBOR  = "cbor"
)

// options holds the parsed command-line flags.
type options struct {
	format       string
	short        bool
	diag         bool
	cborOut      bool
	rejectFloats bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("keyfold-digest", pflag.ContinueOnError)
	flagSet.StringVar(&opts.format, "format", "", "input format: json, jsonc, yaml, or cbor (default: by file extension, json for stdin)")
	flagSet.BoolVar(&opts.short, "short", false, "print the short key-XXXX reference instead of the full digest")
	flagSet.BoolVar(&opts.diag, "diag", false, "print the folded key in diagnostic notation instead of its digest")
	flagSet.BoolVar(&opts.cborOut, "cbor", false, "write the folded key's CBOR wire form to stdout instead of its digest")
	flagSet.BoolVar(&opts.rejectFloats, "reject-floats", false, "fail on floating-point values instead of folding them")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("keyfold-digest %s\n", version.Full())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if opts.diag && opts.cborOut {
		return fmt.Errorf("--diag and --cbor are mutually exclusive")
	}
	if opts.format != "" && !validFormat(opts.format) {
		return fmt.Errorf("unknown format %q (want json, jsonc, yaml, or cbor)", opts.format)
	}

	inputs := flagSet.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	for _, path := range inputs {
		if err := processInput(os.Stdout, path, opts); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// processInput reads one document, folds it, and writes the selected
// rendering to w.
func processInput(w io.Writer, path string, opts options) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	key, err := foldDocument(data, inputFormat(path, opts.format), opts.rejectFloats)
	if err != nil {
		return err
	}

	switch {
	case opts.cborOut:
		wire, err := codec.EncodeKey(key)
		if err != nil {
			return err
		}
		_, err = w.Write(wire)
		return err
	case opts.diag:
		_, err := fmt.Fprintln(w, key)
		return err
	case opts.short:
		_, err := fmt.Fprintf(w, "%s  %s\n", digest.ShortRef(digest.Of(key)), path)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s  %s\n", digest.Format(digest.Of(key)), path)
		return err
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func validFormat(format string) bool {
	switch format {
	case formatJSON, formatJSONC, formatYAML, formatCBOR:
		return true
	}
	return false
}

// inputFormat picks the parse format: the --format override wins,
// then the file extension, then JSON.
func inputFormat(path, override string) string {
	if override != "" {
		return override
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonc":
		return formatJSONC
	case ".yaml", ".yml":
		return formatYAML
	case ".cbor":
		return formatCBOR
	}
	return formatJSON
}

// foldDocument parses data in the given format and folds the result
// into its canonical key.
func foldDocument(data []byte, format string, rejectFloats bool) (canon.Key, error) {
	var doc any
	switch format {
	case formatJSONC:
		// Strip comments and trailing commas, then parse as JSON.
		data = jsonc.ToJSON(data)
		fallthrough
	case formatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return canon.Key{}, fmt.Errorf("parsing %s: %w", format, err)
		}
		if err := decoder.Decode(new(any)); err != io.EOF {
			return canon.Key{}, fmt.Errorf("trailing data after %s document", format)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return canon.Key{}, fmt.Errorf("parsing yaml: %w", err)
		}
	case formatCBOR:
		if err := codec.Unmarshal(data, &doc); err != nil {
			return canon.Key{}, fmt.Errorf("parsing cbor: %w", err)
		}
	default:
		return canon.Key{}, fmt.Errorf("unknown format %q", format)
	}

	normalized, err := normalizeNumbers(doc)
	if err != nil {
		return canon.Key{}, err
	}
	if rejectFloats {
		return canon.ToKey(normalized)
	}
	return canon.ToKeyWithFloats(normalized)
}

// normalizeNumbers rewrites numeric leaves to the shapes the folder
// should see: json.Number (from the UseNumber decoder) becomes int64,
// uint64, or float64, and uint64 values that fit int64 become int64.
// Without the first rule encoding/json would hand every number to the
// folder as float64; without the second, CBOR inputs would fold small
// positive integers as Uint keys while JSON and YAML fold them as
// Int, and equal documents would digest differently across formats.
func normalizeNumbers(doc any) (any, error) {
	switch v := doc.(type) {
	case json.Number:
		s := v.String()
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("number %s does not fit any 64-bit numeric shape", s)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), nil
		}
		return v, nil
	case []any:
		for i, e := range v {
			n, err := normalizeNumbers(e)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		return v, nil
	case map[string]any:
		for k, e := range v {
			n, err := normalizeNumbers(e)
			if err != nil {
				return nil, err
			}
			v[k] = n
		}
		return v, nil
	case map[any]any:
		for k, e := range v {
			n, err := normalizeNumbers(e)
			if err != nil {
				return nil, err
			}
			v[k] = n
		}
		return v, nil
	}
	return doc, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Keyfold digest tool — canonical-key digests of structured documents.

Each input is parsed, folded into its canonical key, and printed as
"<digest>  <name>". Field order, formatting, and input format never
change the digest: two documents digest identically exactly when they
fold to equal keys.

By default every input format is accepted as-is, including floats
(-0.0 and 0.0 fold to distinct keys, NaN payloads are preserved). Use
--reject-floats for key domains that must stay float-free.

Usage:
  keyfold-digest [flags] [file ...]

Examples:
  # Digest a JSON document from stdin
  echo '{"user": "mira", "roles": ["admin"]}' | keyfold-digest

  # Digest files; format picked by extension
  keyfold-digest config.jsonc deploy.yaml snapshot.cbor

  # Short references for display
  keyfold-digest --short config.jsonc

  # Inspect what a document folds to
  keyfold-digest --diag deploy.yaml

  # Export the canonical key as CBOR for another process
  keyfold-digest --cbor config.jsonc > config.key

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
