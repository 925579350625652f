package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type copyResult struct {
	Bytes  int64  `json:"bytes" yaml:"bytes"`
	Source string `json:"source" yaml:"source"`
	Calls  []int  `json:"calls" yaml:"calls"`
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]any{"name": "test", "value": 123}, OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("name = %v, want %q", result["name"], "test")
	}
	if !strings.Contains(buf.String(), "\n  \"name\"") {
		t.Errorf("expected two-space indent, got %s", buf.String())
	}
}

func TestOutput_YAMLIsDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(copyResult{Bytes: 42, Source: "a.txt"}, OutputOptions{Writer: &buf}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "bytes: 42") || !strings.Contains(out, "source: a.txt") {
		t.Errorf("unexpected YAML output: %s", out)
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{"bytes", []byte{0x01, 0x02}, "\x01\x02"},
		{"string", "plain", "plain\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.result, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	err := Output("x", OutputOptions{Format: "table", Writer: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("Output = %v, want unsupported format error", err)
	}
}

func TestOutput_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Output(copyResult{Bytes: 7}, OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"bytes": 7`) {
		t.Errorf("file content = %s", data)
	}
}

func TestOutput_Query(t *testing.T) {
	result := copyResult{Bytes: 1024, Source: "s3://b/k", Calls: []int{3, 5}}

	tests := []struct {
		query string
		want  string
	}{
		{".bytes", "1024\n"},
		{".source", "\"s3://b/k\"\n"},
		{".calls[]", "[3,5]\n"},
		{"{src: .source}", "{\"src\":\"s3://b/k\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var buf bytes.Buffer
			err := Output(result, OutputOptions{Format: FormatJSON, Indent: "", Query: tt.query, Writer: &buf})
			if err != nil {
				t.Fatal(err)
			}
			compact := new(bytes.Buffer)
			if err := json.Compact(compact, buf.Bytes()); err != nil {
				t.Fatal(err)
			}
			if got := compact.String() + "\n"; got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutput_QueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"parse", ".bytes |"},
		{"runtime", ".bytes | keys"},
		{"empty", "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(copyResult{Bytes: 1}, OutputOptions{Query: tt.query, Writer: &buf}); err == nil {
				t.Fatalf("Output with query %q succeeded: %s", tt.query, buf.String())
			}
		})
	}
}

func TestPrintHelpers(t *testing.T) {
	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = os.Stdout, os.Stderr })

	PrintSuccess("copied %d bytes", 10)
	PrintInfo("info")
	PrintWarning("careful")
	PrintError("failed: %s", "boom")
	PrintVerbose(false, "hidden")
	PrintVerbose(true, "shown")

	for _, want := range []string{"✓", "copied 10 bytes", "info", "careful"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stdout %q missing %q", out.String(), want)
		}
	}
	for _, want := range []string{"Error:", "failed: boom", "[verbose] shown"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr %q missing %q", errOut.String(), want)
		}
	}
	if strings.Contains(errOut.String(), "hidden") {
		t.Error("PrintVerbose(false) wrote output")
	}
}
