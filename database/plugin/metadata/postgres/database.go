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

// Package postgres opens the projection store against a PostgreSQL server
package postgres

import (
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresConfig struct {
	host     string
	port     uint
	user     string
	password string
	database string
	sslMode  string
	timeZone string
	dsn      string // Data source name (postgres connection string)
}

// NewConfig applies the options over the connection defaults
func NewConfig(opts ...PostgresOptionFunc) *PostgresConfig {
	c := &PostgresConfig{}
	for _, opt := range opts {
		opt(c)
	}
	if c.host == "" {
		c.host = "localhost"
	}
	if c.port == 0 {
		c.port = 5432
	}
	if c.user == "" {
		c.user = "postgres"
	}
	if c.database == "" {
		c.database = "postgres"
	}
	if c.sslMode == "" {
		c.sslMode = "disable"
	}
	if c.timeZone == "" {
		c.timeZone = "UTC"
	}
	return c
}

// DSN returns the explicit DSN if one was given, otherwise one built from
// the individual settings
func (c *PostgresConfig) DSN() string {
	if dsn := strings.TrimSpace(c.dsn); dsn != "" {
		return dsn
	}
	parts := []string{
		"host=" + c.host,
		"user=" + c.user,
		"password=" + c.password,
		"dbname=" + c.database,
		"port=" + strconv.FormatUint(uint64(c.port), 10),
		"sslmode=" + c.sslMode,
	}
	if c.timeZone != "" {
		parts = append(parts, "TimeZone="+c.timeZone)
	}
	return strings.Join(parts, " ")
}

func (c *PostgresConfig) Dialector() gorm.Dialector {
	return postgres.Open(c.DSN())
}

// Dialector returns a gorm dialect for the configured server
func Dialector(opts ...PostgresOptionFunc) gorm.Dialector {
	return NewConfig(opts...).Dialector()
}
