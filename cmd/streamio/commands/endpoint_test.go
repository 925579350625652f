package commands

import (
	"testing"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want endpoint
	}{
		{"-", endpoint{Kind: kindStdio}},
		{"data.bin", endpoint{Kind: kindFile, Path: "data.bin"}},
		{"/tmp/a/b.txt", endpoint{Kind: kindFile, Path: "/tmp/a/b.txt"}},
		{"file:rel/x", endpoint{Kind: kindFile, Path: "rel/x"}},
		{"s3://bucket/some/key.mp4", endpoint{Kind: kindS3, Bucket: "bucket", Path: "some/key.mp4"}},
		{"s3:///key", endpoint{Kind: kindS3, Path: "key"}},
		{"kv:notes", endpoint{Kind: kindBlob, Path: "notes"}},
		{"ws://localhost:8080/streams/a", endpoint{Kind: kindWS, Path: "ws://localhost:8080/streams/a"}},
		{"wss://example.com/streams/a", endpoint{Kind: kindWS, Path: "wss://example.com/streams/a"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEndpoint(tt.in)
			if err != nil {
				t.Fatalf("parseEndpoint(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseEndpoint(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEndpointErrors(t *testing.T) {
	for _, in := range []string{"", "s3://bucket", "s3://bucket/", "kv:", "file:"} {
		if _, err := parseEndpoint(in); err == nil {
			t.Errorf("parseEndpoint(%q) succeeded", in)
		}
	}
}

func TestEndpointString(t *testing.T) {
	for _, in := range []string{"-", "a/b", "s3://b/k/x", "kv:name", "ws://h/streams/x"} {
		ep, err := parseEndpoint(in)
		if err != nil {
			t.Fatal(err)
		}
		if ep.String() != in {
			t.Errorf("String() = %q, want %q", ep.String(), in)
		}
	}
}

func TestUploadURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ws://h/streams/a", "ws://h/streams/a?mode=upload"},
		{"ws://h/streams/a?x=1", "ws://h/streams/a?x=1&mode=upload"},
		{"ws://h/streams/a?mode=upload", "ws://h/streams/a?mode=upload"},
	}
	for _, tt := range tests {
		if got := uploadURL(tt.in); got != tt.want {
			t.Errorf("uploadURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
