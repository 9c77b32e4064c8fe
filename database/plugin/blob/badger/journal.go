// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package badger implements the transaction journal on BadgerDB. Records are
// CBOR encoded and keyed by sequence so iteration replays them in commit
// order.
package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/database/types"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultBlockCacheSize   = 67108864  // 64MB
	DefaultIndexCacheSize   = 33554432  // 32MB
	DefaultValueLogFileSize = 268435456 // 256MB
	DefaultMemTableSize     = 67108864  // 64MB
	DefaultValueThreshold   = 1024
)

// JournalStore stores committed transactions in badger
type JournalStore struct {
	promRegistry     prometheus.Registerer
	db               *badger.DB
	logger           *slog.Logger
	metrics          *journalMetrics
	gcTicker         *time.Ticker
	gcStopCh         chan struct{}
	dataDir          string
	gcWg             sync.WaitGroup
	closeOnce        sync.Once
	blockCacheSize   uint64
	indexCacheSize   uint64
	valueLogFileSize int64
	memTableSize     int64
	valueThreshold   int64
	gcEnabled        bool
}

// New creates a journal. Uses an in-memory database if no data dir is given.
func New(opts ...JournalOptionFunc) (*JournalStore, error) {
	db := &JournalStore{
		// Set defaults
		gcEnabled:        true,
		blockCacheSize:   DefaultBlockCacheSize,
		indexCacheSize:   DefaultIndexCacheSize,
		valueLogFileSize: int64(DefaultValueLogFileSize),
		memTableSize:     int64(DefaultMemTableSize),
		valueThreshold:   int64(DefaultValueThreshold),
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var journalDb *badger.DB
	var err error
	if db.dataDir == "" {
		// No dataDir, use in-memory config
		badgerOpts := badger.DefaultOptions("").
			WithLogger(NewBadgerLogger(db.logger)).
			// The default INFO logging is a bit verbose
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true).
			WithValueThreshold(db.valueThreshold)
		journalDb, err = badger.Open(badgerOpts)
		if err != nil {
			return nil, err
		}
		// Value log GC does not apply to in-memory stores
		db.gcEnabled = false
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(db.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(db.dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		journalDir := filepath.Join(
			db.dataDir,
			"journal",
		)
		badgerOpts := badger.DefaultOptions(journalDir).
			WithLogger(NewBadgerLogger(db.logger)).
			WithLoggingLevel(badger.WARNING).
			WithBlockCacheSize(int64(db.blockCacheSize)). //nolint:gosec // blockCacheSize is controlled and reasonable
			WithIndexCacheSize(int64(db.indexCacheSize)). //nolint:gosec // indexCacheSize is controlled and reasonable
			WithValueLogFileSize(db.valueLogFileSize).
			WithMemTableSize(db.memTableSize).
			WithValueThreshold(db.valueThreshold).
			WithCompression(options.Snappy)
		journalDb, err = badger.Open(badgerOpts)
		if err != nil {
			return nil, err
		}
	}
	db.db = journalDb
	db.init()
	return db, nil
}

func (d *JournalStore) init() {
	// Configure metrics
	if d.promRegistry != nil {
		d.registerJournalMetrics()
	}
	// Configure GC
	if d.gcEnabled {
		d.gcTicker = time.NewTicker(5 * time.Minute)
		d.gcStopCh = make(chan struct{})
		d.gcWg.Add(1)
		go d.journalGc(d.gcTicker, d.gcStopCh)
	}
}

func (d *JournalStore) journalGc(t *time.Ticker, stop <-chan struct{}) {
	defer d.gcWg.Done()
	for {
		select {
		case <-t.C:
		again:
			err := d.DB().RunValueLogGC(0.5)
			if err != nil {
				// Log any actual errors
				if !errors.Is(err, badger.ErrNoRewrite) {
					d.logger.Warn(
						fmt.Sprintf("journal DB: GC failure: %s", err),
						"component", "database",
					)
				}
			} else {
				// Run it again if it just ran successfully
				goto again
			}
		case <-stop:
			return
		}
	}
}

// Close stops GC and closes the database handle. It is safe to call more
// than once.
func (d *JournalStore) Close() error {
	var err error
	d.closeOnce.Do(func() {
		if d.gcTicker != nil {
			d.gcTicker.Stop()
			close(d.gcStopCh)
			// Wait for GC goroutine to finish
			d.gcWg.Wait()
		}
		err = d.DB().Close()
	})
	return err
}

// DB returns the database handle
func (d *JournalStore) DB() *badger.DB {
	return d.db
}

// Append stores a committed transaction. The record must directly follow
// the last stored sequence.
func (d *JournalStore) Append(ctx context.Context, rec chain.JournalRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	err = d.DB().Update(func(txn *badger.Txn) error {
		last, err := lastSequence(txn)
		if err != nil {
			return err
		}
		if rec.Sequence != last+1 {
			return fmt.Errorf(
				"%w: got %d, expected %d",
				types.ErrJournalGap,
				rec.Sequence,
				last+1,
			)
		}
		if err := txn.Set(types.JournalKey(rec.Sequence), val); err != nil {
			return err
		}
		return txn.Set(
			[]byte(types.JournalLastSeqKey),
			types.JournalKeyUint64ToBytes(rec.Sequence),
		)
	})
	if err != nil {
		if d.metrics != nil {
			d.metrics.appendErrors.Inc()
		}
		return err
	}
	if d.metrics != nil {
		d.metrics.appends.Inc()
		d.metrics.bytes.Add(float64(len(val)))
		d.metrics.lastSequence.Set(float64(rec.Sequence))
	}
	return nil
}

// Last returns the sequence of the most recent record, or zero for an empty
// journal
func (d *JournalStore) Last() (uint64, error) {
	var ret uint64
	err := d.DB().View(func(txn *badger.Txn) error {
		var err error
		ret, err = lastSequence(txn)
		return err
	})
	return ret, err
}

func lastSequence(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(types.JournalLastSeqKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("invalid journal sequence value length: %d", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

// Get returns a single record
func (d *JournalStore) Get(sequence uint64) (chain.JournalRecord, error) {
	var ret chain.JournalRecord
	err := d.DB().View(func(txn *badger.Txn) error {
		item, err := txn.Get(types.JournalKey(sequence))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return types.ErrBlobKeyNotFound
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		ret, err = decodeRecord(val)
		return err
	})
	return ret, err
}

// Iterate calls fn for every record with a sequence of at least from, in
// sequence order. Iteration stops at the first error.
func (d *JournalStore) Iterate(
	ctx context.Context,
	from uint64,
	fn func(chain.JournalRecord) error,
) error {
	return d.DB().View(func(txn *badger.Txn) error {
		prefix := []byte(types.JournalKeyPrefix)
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         prefix,
			PrefetchValues: true,
			PrefetchSize:   100,
		})
		defer it.Close()
		for it.Seek(types.JournalKey(from)); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if _, ok := types.JournalKeySequence(item.Key()); !ok {
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decodeRecord(val)
			if err != nil {
				return fmt.Errorf("decode journal record %x: %w", item.Key(), err)
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Backup writes a full badger backup of the journal and returns the
// version it covers
func (d *JournalStore) Backup(w io.Writer) (uint64, error) {
	return d.DB().Backup(w, 0)
}

// Restore loads a backup written by Backup. The journal must be empty.
func (d *JournalStore) Restore(r io.Reader) error {
	last, err := d.Last()
	if err != nil {
		return err
	}
	if last != 0 {
		return fmt.Errorf("%w: journal holds %d records", types.ErrJournalNotEmpty, last)
	}
	// Concurrent pending writes during load
	return d.DB().Load(r, 256)
}
