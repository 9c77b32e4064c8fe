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

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDSN(t *testing.T) {
	assert.Equal(
		t,
		"host=localhost user=postgres password= dbname=postgres port=5432 sslmode=disable TimeZone=UTC",
		NewConfig().DSN(),
	)
}

func TestOptionsDSN(t *testing.T) {
	c := NewConfig(
		WithHost("db.internal"),
		WithPort(6543),
		WithUser("govern"),
		WithPassword("secret"),
		WithDatabase("projections"),
		WithSSLMode("require"),
		WithTimeZone("Europe/Berlin"),
	)
	assert.Equal(
		t,
		"host=db.internal user=govern password=secret dbname=projections port=6543 sslmode=require TimeZone=Europe/Berlin",
		c.DSN(),
	)
}

func TestWithDSNTakesPrecedence(t *testing.T) {
	c := NewConfig(
		WithHost("ignored"),
		WithDSN("  postgres://govern@db/projections  "),
	)
	assert.Equal(t, "postgres://govern@db/projections", c.DSN())
	assert.Equal(t, "postgres", c.Dialector().Name())
}
