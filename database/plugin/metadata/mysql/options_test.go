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

package mysql

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDSN(t *testing.T) {
	parsed, err := mysql.ParseDSN(NewConfig().DSN())
	require.NoError(t, err)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "localhost:3306", parsed.Addr)
	assert.Equal(t, "mysql", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
}

func TestOptionsDSN(t *testing.T) {
	c := NewConfig(
		WithHost("db.internal"),
		WithPort(3307),
		WithUser("govern"),
		WithPassword("secret"),
		WithDatabase("projections"),
		WithSSLMode("skip-verify"),
	)
	parsed, err := mysql.ParseDSN(c.DSN())
	require.NoError(t, err)
	assert.Equal(t, "govern", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "projections", parsed.DBName)
	assert.Contains(t, c.DSN(), "tls=skip-verify")
}

func TestWithDSNTakesPrecedence(t *testing.T) {
	c := NewConfig(
		WithHost("ignored"),
		WithDSN(" govern:pw@tcp(db:3306)/projections "),
	)
	assert.Equal(t, "govern:pw@tcp(db:3306)/projections", c.DSN())
	assert.Equal(t, "mysql", c.Dialector().Name())
}
