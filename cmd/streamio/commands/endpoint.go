package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/haivivi/streamio/pkg/blob"
	"github.com/haivivi/streamio/pkg/cli"
	"github.com/haivivi/streamio/pkg/kv"
	"github.com/haivivi/streamio/pkg/storage"
	"github.com/haivivi/streamio/pkg/stream"
	"github.com/haivivi/streamio/pkg/wsstream"
)

type endpointKind string

const (
	kindStdio endpointKind = "stdio"
	kindFile  endpointKind = "file"
	kindS3    endpointKind = "s3"
	kindBlob  endpointKind = "kv"
	kindWS    endpointKind = "ws"
)

// endpoint is a parsed copy source or destination.
type endpoint struct {
	Kind   endpointKind
	Bucket string // s3 only
	Path   string // file path, object key, blob name or websocket URL
}

func (e endpoint) String() string {
	switch e.Kind {
	case kindStdio:
		return "-"
	case kindS3:
		return "s3://" + e.Bucket + "/" + e.Path
	case kindBlob:
		return "kv:" + e.Path
	default:
		return e.Path
	}
}

// parseEndpoint parses the endpoint syntax of copy. Anything without a known
// scheme is a local path.
func parseEndpoint(s string) (endpoint, error) {
	switch {
	case s == "":
		return endpoint{}, fmt.Errorf("empty endpoint")
	case s == "-":
		return endpoint{Kind: kindStdio}, nil
	case strings.HasPrefix(s, "s3://"):
		bucket, key, _ := strings.Cut(strings.TrimPrefix(s, "s3://"), "/")
		if key == "" {
			return endpoint{}, fmt.Errorf("s3 endpoint %q: object key is required", s)
		}
		return endpoint{Kind: kindS3, Bucket: bucket, Path: key}, nil
	case strings.HasPrefix(s, "kv:"):
		name := strings.TrimPrefix(s, "kv:")
		if name == "" {
			return endpoint{}, fmt.Errorf("kv endpoint %q: blob name is required", s)
		}
		return endpoint{Kind: kindBlob, Path: name}, nil
	case strings.HasPrefix(s, "ws://"), strings.HasPrefix(s, "wss://"):
		return endpoint{Kind: kindWS, Path: s}, nil
	case strings.HasPrefix(s, "file:"):
		p := strings.TrimPrefix(s, "file:")
		if p == "" {
			return endpoint{}, fmt.Errorf("file endpoint %q: path is required", s)
		}
		return endpoint{Kind: kindFile, Path: p}, nil
	default:
		return endpoint{Kind: kindFile, Path: s}, nil
	}
}

// env opens endpoints for one command run. Backends that hold resources,
// such as the blob store database, are opened at most once and released by
// Close.
type env struct {
	cfg   *cli.Context
	paths *cli.Paths

	blobs *blob.Store
	db    *kv.Badger

	// s3Client replaces the client built from the context settings.
	s3Client storage.S3Client
}

func newEnv(cfg *cli.Context) (*env, error) {
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, paths: paths}, nil
}

func (e *env) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db, e.blobs = nil, nil
	return err
}

func (e *env) bufferSize() int {
	if e.cfg.BufferSize > 0 {
		return e.cfg.BufferSize
	}
	return stream.DefaultBufferSize
}

func (e *env) localRoot() string {
	if e.cfg.LocalRoot != "" {
		return e.cfg.LocalRoot
	}
	return "."
}

// local returns a store rooted at the directory of path and the name of path
// within it. Relative paths are taken from the local root.
func (e *env) local(path string) (*storage.Local, string, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(e.localRoot(), full)
	}
	store, err := storage.NewLocal(filepath.Dir(full))
	if err != nil {
		return nil, "", err
	}
	return store, filepath.Base(full), nil
}

func (e *env) s3(bucket string) *storage.S3Store {
	settings := e.cfg.S3
	if settings == nil {
		settings = &cli.S3Settings{}
	}
	if bucket == "" {
		bucket = settings.Bucket
	}
	if e.s3Client != nil {
		return storage.NewS3(e.s3Client, bucket, settings.Prefix)
	}
	region := settings.Region
	if region == "" {
		region = "us-east-1"
	}
	client := storage.NewS3Client(storage.S3Config{
		Region:    region,
		Endpoint:  settings.Endpoint,
		AccessKey: settings.AccessKey,
		SecretKey: settings.SecretKey,
		PathStyle: settings.PathStyle,
	})
	return storage.NewS3(client, bucket, settings.Prefix)
}

// blobStore opens the blob store database on first use.
func (e *env) blobStore() (*blob.Store, error) {
	if e.blobs != nil {
		return e.blobs, nil
	}
	dir := e.cfg.BlobDir
	if dir == "" {
		if err := e.paths.EnsureDataDir(); err != nil {
			return nil, err
		}
		dir = e.paths.BlobDir()
	}
	db, err := kv.NewBadger(kv.BadgerOptions{Dir: dir, Logger: slog.Default()})
	if err != nil {
		return nil, fmt.Errorf("open blob store %s: %w", dir, err)
	}
	slog.Debug("blob store opened", "dir", dir)
	e.db = db
	e.blobs = blob.New(db, kv.Key{"blobs"}, nil)
	return e.blobs, nil
}

func (e *env) openSource(ctx context.Context, ep endpoint) (stream.Source, error) {
	switch ep.Kind {
	case kindStdio:
		return stream.AsSource(struct{ io.Reader }{os.Stdin}), nil
	case kindFile:
		store, name, err := e.local(ep.Path)
		if err != nil {
			return nil, err
		}
		return store.Open(ctx, name)
	case kindS3:
		return e.s3(ep.Bucket).Open(ctx, ep.Path)
	case kindBlob:
		store, err := e.blobStore()
		if err != nil {
			return nil, err
		}
		return storage.NewBlob(store).Open(ctx, ep.Path)
	case kindWS:
		return wsstream.Dial(ctx, ep.Path, nil)
	}
	return nil, fmt.Errorf("unsupported endpoint %q", ep)
}

func (e *env) openSink(ctx context.Context, ep endpoint) (stream.Sink, error) {
	switch ep.Kind {
	case kindStdio:
		return stream.AsSink(struct{ io.Writer }{os.Stdout}), nil
	case kindFile:
		store, name, err := e.local(ep.Path)
		if err != nil {
			return nil, err
		}
		return store.Create(ctx, name)
	case kindS3:
		return e.s3(ep.Bucket).Create(ctx, ep.Path)
	case kindBlob:
		store, err := e.blobStore()
		if err != nil {
			return nil, err
		}
		return storage.NewBlob(store).Create(ctx, ep.Path)
	case kindWS:
		return wsstream.Dial(ctx, uploadURL(ep.Path), nil)
	}
	return nil, fmt.Errorf("unsupported endpoint %q", ep)
}

// uploadURL switches a serve stream URL to upload mode.
func uploadURL(u string) string {
	if strings.Contains(u, "mode=") {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&mode=upload"
	}
	return u + "?mode=upload"
}
