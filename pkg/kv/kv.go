// Package kv provides the key-value store that backs blob persistence.
//
// Keys are hierarchical paths (e.g. ["blobs", "chunk", "<id>", "00000001"])
// encoded with a configurable separator byte (default ':'). Two backends are
// provided: Badger for on-disk or in-memory BadgerDB, and Memory, a map-based
// store for tests.
package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("kv: not found")

	// ErrInvalidKey is returned for empty keys or keys with a segment that
	// contains the separator.
	ErrInvalidKey = errors.New("kv: invalid key")
)

// Key is a hierarchical path of string segments.
type Key []string

// String joins the segments with ':' for display.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Append returns a new key with segs added after k. k is not modified.
func (k Key) Append(segs ...string) Key {
	out := make(Key, 0, len(k)+len(segs))
	out = append(out, k...)
	return append(out, segs...)
}

// Entry is a key-value pair.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with path-based keys.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key Key) error

	// List yields every entry under prefix in lexicographic order of the
	// encoded key. An empty prefix lists the whole store.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchSet stores all entries atomically.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete removes all keys atomically.
	BatchDelete(ctx context.Context, keys []Key) error

	// Close releases the store.
	Close() error
}

// DefaultSeparator joins key segments when no separator is configured.
const DefaultSeparator byte = ':'

// Options configures key encoding. A nil *Options uses the defaults.
type Options struct {
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

// encode validates k and joins it with the separator.
func (o *Options) encode(k Key) ([]byte, error) {
	if len(k) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return o.join(k)
}

// encodePrefix is encode for List prefixes: the empty prefix is allowed and
// a non-empty prefix ends with the separator so "a:b" does not match "a:bc".
func (o *Options) encodePrefix(k Key) ([]byte, error) {
	if len(k) == 0 {
		return nil, nil
	}
	b, err := o.join(k)
	if err != nil {
		return nil, err
	}
	return append(b, o.sep()), nil
}

func (o *Options) join(k Key) ([]byte, error) {
	s := o.sep()
	n := len(k) - 1
	for _, seg := range k {
		if strings.IndexByte(seg, s) >= 0 {
			return nil, fmt.Errorf("%w: segment %q contains separator %q", ErrInvalidKey, seg, s)
		}
		n += len(seg)
	}
	buf := make([]byte, 0, n)
	for i, seg := range k {
		if i > 0 {
			buf = append(buf, s)
		}
		buf = append(buf, seg...)
	}
	return buf, nil
}

func (o *Options) decode(b []byte) Key {
	parts := bytes.Split(b, []byte{o.sep()})
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = string(p)
	}
	return k
}
