package kv

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by BadgerDB v4.
type Badger struct {
	db   *badger.DB
	opts *Options
}

// BadgerOptions configures NewBadger.
type BadgerOptions struct {
	// Options controls key encoding.
	Options *Options

	// Dir holds the database files. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in memory; nothing is written to disk.
	InMemory bool

	// Logger receives badger warnings and errors. Nil uses slog.Default.
	Logger *slog.Logger
}

// NewBadger opens a BadgerDB-backed Store.
func NewBadger(bopts BadgerOptions) (*Badger, error) {
	if !bopts.InMemory && bopts.Dir == "" {
		return nil, errors.New("kv: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(bopts.Dir)
	if bopts.InMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := bopts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dbOpts = dbOpts.WithLogger(slogAdapter{logger.With("component", "badger")})

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("kv: open badger: %w", err)
	}
	return &Badger{db: db, opts: bopts.Options}, nil
}

func (b *Badger) Get(_ context.Context, key Key) ([]byte, error) {
	k, err := b.opts.encode(key)
	if err != nil {
		return nil, err
	}
	var val []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

func (b *Badger) Set(_ context.Context, key Key, value []byte) error {
	k, err := b.opts.encode(key)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, value)
	})
}

func (b *Badger) Delete(_ context.Context, key Key) error {
	k, err := b.opts.encode(key)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (b *Badger) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p, err := b.opts.encodePrefix(prefix)
	if err != nil {
		return func(yield func(Entry, error) bool) { yield(Entry{}, err) }
	}

	return func(yield func(Entry, error) bool) {
		stopped := false
		err := b.db.View(func(txn *badger.Txn) error {
			iterOpts := badger.DefaultIteratorOptions
			iterOpts.Prefix = p
			it := txn.NewIterator(iterOpts)
			defer it.Close()

			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				item := it.Item()
				val, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				if !yield(Entry{Key: b.opts.decode(item.KeyCopy(nil)), Value: val}, nil) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(Entry{}, err)
		}
	}
}

func (b *Badger) BatchSet(_ context.Context, entries []Entry) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, e := range entries {
		k, err := b.opts.encode(e.Key)
		if err != nil {
			return err
		}
		if err := wb.Set(k, e.Value); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *Badger) BatchDelete(_ context.Context, keys []Key) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		k, err := b.opts.encode(key)
		if err != nil {
			return err
		}
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *Badger) Close() error {
	return b.db.Close()
}

var _ Store = (*Badger)(nil)

// slogAdapter routes badger's printf-style logging to slog. Info and debug
// output is dropped.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Errorf(f string, v ...any)   { a.l.Error(fmt.Sprintf(f, v...)) }
func (a slogAdapter) Warningf(f string, v ...any) { a.l.Warn(fmt.Sprintf(f, v...)) }
func (a slogAdapter) Infof(string, ...any)        {}
func (a slogAdapter) Debugf(string, ...any)       {}
