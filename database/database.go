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

// Package database holds the persistent stores: the badger transaction
// journal that state is rebuilt from and the sqlite projections served by
// the query API. Projections live in sqlite by default or in postgres or
// mysql.
package database

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/database/plugin/blob/badger"
	"github.com/blinklabs-io/govern/database/plugin/metadata"
	"github.com/blinklabs-io/govern/database/plugin/metadata/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	// DataDir is the storage directory. Both stores are in-memory when empty.
	DataDir string
	// MetadataBackend selects the projection database. See the metadata
	// package for the supported backends.
	MetadataBackend string
	MetadataDSN     string
	Logger          *slog.Logger
	PromRegistry    prometheus.Registerer
}

type Database struct {
	logger   *slog.Logger
	journal  *badger.JournalStore
	metadata *sqlite.MetadataStoreSqlite
	dataDir  string
}

// New creates a new database instance with optional persistence using the provided data directory
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	metadataDb, err := metadata.New(metadata.Config{
		Backend: cfg.MetadataBackend,
		DataDir: cfg.DataDir,
		DSN:     cfg.MetadataDSN,
		Logger:  cfg.Logger,
	})
	if err != nil {
		if metadataDb != nil {
			metadataDb.Close() //nolint:errcheck
		}
		return nil, err
	}
	journalDb, err := badger.New(
		badger.WithDataDir(cfg.DataDir),
		badger.WithLogger(cfg.Logger),
		badger.WithPromRegistry(cfg.PromRegistry),
	)
	if err != nil {
		metadataDb.Close() //nolint:errcheck
		return nil, err
	}
	return &Database{
		logger:   cfg.Logger,
		journal:  journalDb,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}, nil
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Journal returns the underlying transaction journal
func (d *Database) Journal() *badger.JournalStore {
	return d.journal
}

// Metadata returns the underlying projection store
func (d *Database) Metadata() *sqlite.MetadataStoreSqlite {
	return d.metadata
}

// Append implements chain.Journal
func (d *Database) Append(ctx context.Context, rec chain.JournalRecord) error {
	return d.journal.Append(ctx, rec)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	// Close metadata
	metadataErr := d.Metadata().Close()
	err = errors.Join(err, metadataErr)
	// Close journal
	journalErr := d.Journal().Close()
	err = errors.Join(err, journalErr)
	return err
}
