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

package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/govern/database/plugin/blob"
	"github.com/blinklabs-io/govern/database/plugin/blob/badger"
	"github.com/blinklabs-io/govern/internal/config"
	"golang.org/x/sync/errgroup"
)

// DefaultBackupKey is the object name used when none is given
const DefaultBackupKey = "govern-journal.bak"

var ErrNoDatabasePath = errors.New("no databasePath configured")

func openJournal(cfg *config.Config, logger *slog.Logger) (*badger.JournalStore, error) {
	if cfg.DatabasePath == "" {
		return nil, ErrNoDatabasePath
	}
	return badger.New(
		badger.WithDataDir(cfg.DatabasePath),
		badger.WithLogger(logger),
		badger.WithGc(false),
	)
}

func openBlobStore(ctx context.Context, location string, logger *slog.Logger) (blob.BlobStore, error) {
	store, err := blob.New(location, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Start(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Backup streams the journal of a stopped node to the object at key under
// location and returns the number of journaled transactions
func Backup(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	location string,
	key string,
) (uint64, error) {
	journal, err := openJournal(cfg, logger)
	if err != nil {
		return 0, err
	}
	defer journal.Close() //nolint:errcheck
	last, err := journal.Last()
	if err != nil {
		return 0, err
	}
	store, err := openBlobStore(ctx, location, logger)
	if err != nil {
		return 0, err
	}
	defer store.Close() //nolint:errcheck

	pr, pw := io.Pipe()
	var g errgroup.Group
	g.Go(func() error {
		_, err := journal.Backup(pw)
		pw.CloseWithError(err)
		return err
	})
	putErr := store.Put(ctx, key, pr)
	// Unblocks the writer when the upload stopped early
	pr.CloseWithError(putErr)
	if err := errors.Join(putErr, g.Wait()); err != nil {
		return 0, fmt.Errorf("journal backup failed: %w", err)
	}
	logger.Info(
		fmt.Sprintf("wrote journal backup of %d transactions", last),
		"component", "node",
		"location", location,
		"key", key,
	)
	return last, nil
}

// Restore loads a journal backup into the empty database of a stopped
// node. Projections are rebuilt from it on the next start.
func Restore(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	location string,
	key string,
) (uint64, error) {
	store, err := openBlobStore(ctx, location, logger)
	if err != nil {
		return 0, err
	}
	defer store.Close() //nolint:errcheck
	r, err := store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	defer r.Close() //nolint:errcheck
	journal, err := openJournal(cfg, logger)
	if err != nil {
		return 0, err
	}
	defer journal.Close() //nolint:errcheck
	if err := journal.Restore(r); err != nil {
		return 0, fmt.Errorf("journal restore failed: %w", err)
	}
	last, err := journal.Last()
	if err != nil {
		return 0, err
	}
	logger.Info(
		fmt.Sprintf("restored journal backup of %d transactions", last),
		"component", "node",
		"location", location,
		"key", key,
	)
	return last, nil
}
