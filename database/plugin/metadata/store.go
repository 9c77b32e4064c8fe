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

// Package metadata selects the SQL backend that holds the event
// projections
package metadata

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/govern/database/plugin/metadata/mysql"
	"github.com/blinklabs-io/govern/database/plugin/metadata/postgres"
	"github.com/blinklabs-io/govern/database/plugin/metadata/sqlite"
)

const (
	BackendSqlite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMysql    = "mysql"
)

type Config struct {
	// Backend is one of sqlite, postgres or mysql. Empty means sqlite.
	Backend string
	// DataDir holds the sqlite file. In-memory when empty.
	DataDir string
	// DSN is the connection string of the postgres or mysql server
	DSN    string
	Logger *slog.Logger
}

// New opens the projection store on the configured backend
func New(cfg Config) (*sqlite.MetadataStoreSqlite, error) {
	opts := []sqlite.SqliteOptionFunc{
		sqlite.WithLogger(cfg.Logger),
	}
	switch cfg.Backend {
	case "", BackendSqlite:
		opts = append(opts, sqlite.WithDataDir(cfg.DataDir))
	case BackendPostgres:
		opts = append(
			opts,
			sqlite.WithDialector(postgres.Dialector(postgres.WithDSN(cfg.DSN))),
		)
	case BackendMysql:
		opts = append(
			opts,
			sqlite.WithDialector(mysql.Dialector(mysql.WithDSN(cfg.DSN))),
		)
	default:
		return nil, fmt.Errorf("unknown metadata backend: %s", cfg.Backend)
	}
	return sqlite.NewWithOptions(opts...)
}
