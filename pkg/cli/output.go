package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/itchyny/gojq"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatYAML outputs as YAML (default for terminal)
	FormatYAML OutputFormat = "yaml"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatRaw outputs raw data
	FormatRaw OutputFormat = "raw"
)

// OutputOptions configures output behavior
type OutputOptions struct {
	// Format is the output format (yaml, json, raw)
	Format OutputFormat

	// File is the output file path (empty for stdout)
	File string

	// Indent is the indentation for JSON output
	Indent string

	// Writer is an optional custom writer (overrides File)
	Writer io.Writer

	// Query is a jq expression applied to the result before formatting.
	// A query yielding several values outputs them as a list.
	Query string
}

// Output writes the result to the configured destination
func Output(result any, opts OutputOptions) error {
	if opts.Query != "" {
		v, err := applyQuery(opts.Query, result)
		if err != nil {
			return err
		}
		result = v
	}

	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	} else if opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case FormatJSON:
		return outputJSON(w, result, opts.Indent)
	case FormatYAML, "":
		return outputYAML(w, result)
	case FormatRaw:
		return outputRaw(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// applyQuery runs a jq expression over result. The result is first brought
// to its JSON form, which is the only input gojq accepts.
func applyQuery(expr string, result any) (any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal query input: %w", err)
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}

	var values []any
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		values = append(values, v)
	}
	switch len(values) {
	case 0:
		return nil, fmt.Errorf("jq expression returned no result")
	case 1:
		return values[0], nil
	default:
		return values, nil
	}
}

func outputJSON(w io.Writer, result any, indent string) error {
	enc := json.NewEncoder(w)
	if indent == "" {
		indent = "  "
	}
	enc.SetIndent("", indent)
	return enc.Encode(result)
}

func outputYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func outputRaw(w io.Writer, result any) error {
	switch v := result.(type) {
	case []byte:
		_, err := w.Write(v)
		return err
	case string:
		_, err := io.WriteString(w, v+"\n")
		return err
	default:
		return outputYAML(w, result)
	}
}
