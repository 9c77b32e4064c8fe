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

package metadata_test

import (
	"testing"

	"github.com/blinklabs-io/govern/database/plugin/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSqlite(t *testing.T) {
	for _, backend := range []string{"", metadata.BackendSqlite} {
		store, err := metadata.New(metadata.Config{
			Backend: backend,
			DataDir: t.TempDir(),
		})
		require.NoError(t, err)
		seq, err := store.LastEventSequence(nil)
		require.NoError(t, err)
		assert.Zero(t, seq)
		require.NoError(t, store.Close())
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := metadata.New(metadata.Config{Backend: "oracle"})
	require.ErrorContains(t, err, "unknown metadata backend")
}
