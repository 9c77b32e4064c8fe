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

// Package mysql opens the projection store against a MySQL server
package mysql

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type MysqlConfig struct {
	host     string
	port     uint
	user     string
	password string
	database string
	sslMode  string
	timeZone string
	dsn      string // Data source name (MySQL connection string)
}

// NewConfig applies the options over the connection defaults
func NewConfig(opts ...MysqlOptionFunc) *MysqlConfig {
	c := &MysqlConfig{}
	for _, opt := range opts {
		opt(c)
	}
	if c.host == "" {
		c.host = "localhost"
	}
	if c.port == 0 {
		c.port = 3306
	}
	if c.user == "" {
		c.user = "root"
	}
	if c.database == "" {
		c.database = "mysql"
	}
	if c.timeZone == "" {
		c.timeZone = "UTC"
	}
	return c
}

// DSN returns the explicit DSN if one was given, otherwise one built from
// the individual settings
func (c *MysqlConfig) DSN() string {
	if dsn := strings.TrimSpace(c.dsn); dsn != "" {
		return dsn
	}
	cfg := mysql.Config{
		User:   c.user,
		Passwd: c.password,
		Net:    "tcp",
		Addr: net.JoinHostPort(
			c.host,
			strconv.FormatUint(uint64(c.port), 10),
		),
		DBName:               c.database,
		ParseTime:            true,
		AllowNativePasswords: true,
	}
	loc, err := time.LoadLocation(c.timeZone)
	if err != nil {
		loc = time.UTC
	}
	cfg.Loc = loc
	if c.sslMode != "" {
		cfg.Params = map[string]string{"tls": c.sslMode}
	}
	return cfg.FormatDSN()
}

func (c *MysqlConfig) Dialector() gorm.Dialector {
	return gormmysql.Open(c.DSN())
}

// Dialector returns a gorm dialect for the configured server
func Dialector(opts ...MysqlOptionFunc) gorm.Dialector {
	return NewConfig(opts...).Dialector()
}
