package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/haivivi/streamio/pkg/stream"
)

// Local implements FileStore on top of the local filesystem.
// All paths are resolved relative to the configured root directory.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at dir.
// The directory is created (with parents) if it does not already exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string {
	return l.root
}

// resolve turns a storage path into an absolute filesystem path below root.
func (l *Local) resolve(path string) (string, error) {
	p := filepath.FromSlash(path)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return filepath.Join(l.root, p), nil
}

// Open opens the named file for reading.
func (l *Local) Open(_ context.Context, path string) (stream.Source, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	return &fileSource{f: f}, nil
}

// Create opens the named file for writing, creating parent directories as
// needed. The data goes to a temporary file in the same directory that
// replaces the named file on Close. Aborting the sink, or a failed Write,
// removes the temporary file and leaves an existing file untouched.
func (l *Local) Create(_ context.Context, path string) (stream.Sink, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return &fileSink{f: f, path: full}, nil
}

// Delete removes the named file. If the file does not exist, Delete
// returns nil (idempotent).
func (l *Local) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether the named file exists.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// fileSource reads a local file. Everything between the read offset and the
// current end of file counts as available.
type fileSource struct {
	f   *os.File
	off int64
}

func (s *fileSource) Read(p []byte) (int, error) {
	n, err := s.f.Read(p)
	s.off += int64(n)
	return n, err
}

func (s *fileSource) Available() (int, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	rest := fi.Size() - s.off
	if rest <= 0 || !fi.Mode().IsRegular() {
		return 0, nil
	}
	return int(min(rest, math.MaxInt)), nil
}

func (s *fileSource) Close() error {
	return s.f.Close()
}

// fileSink writes a temporary file and renames it to path on Close. Flush
// commits the written data to stable storage.
type fileSink struct {
	f      *os.File
	path   string
	err    error
	closed bool
}

func (s *fileSink) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	if err != nil && s.err == nil {
		s.err = err
	}
	return n, err
}

func (s *fileSink) Flush() error {
	return s.f.Sync()
}

func (s *fileSink) Close() error {
	if s.closed {
		return nil
	}
	if s.err != nil {
		return errors.Join(fmt.Errorf("storage: %s not written: %w", s.path, s.err), s.Abort())
	}
	s.closed = true
	if err := s.f.Close(); err != nil {
		os.Remove(s.f.Name())
		return err
	}
	if err := os.Rename(s.f.Name(), s.path); err != nil {
		os.Remove(s.f.Name())
		return err
	}
	return nil
}

// Abort removes the temporary file.
func (s *fileSink) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.f.Close(), os.Remove(s.f.Name()))
}

// Compile-time interface checks.
var (
	_ FileStore      = (*Local)(nil)
	_ stream.Aborter = (*fileSink)(nil)
)
