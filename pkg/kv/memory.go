package kv

import (
	"bytes"
	"context"
	"iter"
	"slices"
	"strings"
	"sync"
)

// Memory is a map-backed Store. Values are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	opts *Options
}

// NewMemory returns an empty in-memory store. Pass nil for default options.
func NewMemory(opts *Options) *Memory {
	return &Memory{
		data: make(map[string][]byte),
		opts: opts,
	}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k, err := m.opts.encode(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	v, ok := m.data[string(k)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	k, err := m.opts.encode(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[string(k)] = bytes.Clone(value)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	k, err := m.opts.encode(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, string(k))
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p, err := m.opts.encodePrefix(prefix)
	if err != nil {
		return func(yield func(Entry, error) bool) { yield(Entry{}, err) }
	}

	// Snapshot under the read lock so callers may modify the store while
	// iterating.
	m.mu.RLock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, string(p)) {
			keys = append(keys, k)
		}
	}
	vals := make(map[string][]byte, len(keys))
	for _, k := range keys {
		vals[k] = bytes.Clone(m.data[k])
	}
	m.mu.RUnlock()
	slices.Sort(keys)

	return func(yield func(Entry, error) bool) {
		for _, k := range keys {
			if !yield(Entry{Key: m.opts.decode([]byte(k)), Value: vals[k]}, nil) {
				return
			}
		}
	}
}

func (m *Memory) BatchSet(_ context.Context, entries []Entry) error {
	encoded := make([]string, len(entries))
	for i, e := range entries {
		k, err := m.opts.encode(e.Key)
		if err != nil {
			return err
		}
		encoded[i] = string(k)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range entries {
		m.data[encoded[i]] = bytes.Clone(e.Value)
	}
	return nil
}

func (m *Memory) BatchDelete(_ context.Context, keys []Key) error {
	encoded := make([]string, len(keys))
	for i, key := range keys {
		k, err := m.opts.encode(key)
		if err != nil {
			return err
		}
		encoded[i] = string(k)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range encoded {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
