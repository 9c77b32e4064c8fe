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

package gcs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/govern/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{uri: "gs://backups", bucket: "backups"},
		{uri: "gcs://backups", bucket: "backups"},
		{uri: "gs://backups/govern/", bucket: "backups", prefix: "govern/"},
		{uri: "gs://", wantErr: true},
		{uri: "s3://backups", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			bucket, prefix, err := ParseURI(tc.uri)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.bucket, bucket)
			assert.Equal(t, tc.prefix, prefix)
		})
	}
}

func TestOptions(t *testing.T) {
	_, err := NewWithOptions(WithPrefix("govern/"))
	require.Error(t, err)

	d, err := NewWithOptions(
		WithBucket("backups"),
		WithPrefix("govern/"),
		WithCredentialsFile("/etc/govern/gcs.json"),
	)
	require.NoError(t, err)
	assert.Equal(t, "backups", d.Bucket())
	assert.Equal(t, "govern/journal.bak", d.fullKey("journal.bak"))
	assert.Equal(t, "/etc/govern/gcs.json", d.credentialsFile)
}

func TestStartMissingCredentials(t *testing.T) {
	d, err := NewWithOptions(
		WithBucket("backups"),
		WithCredentialsFile(filepath.Join(t.TempDir(), "missing.json")),
	)
	require.NoError(t, err)
	require.ErrorContains(t, d.Start(context.Background()), "credentials file")
}

func TestNotStarted(t *testing.T) {
	d, err := New("gs://backups", nil)
	require.NoError(t, err)
	_, err = d.Get(context.Background(), "journal.bak")
	require.ErrorIs(t, err, types.ErrNoStoreAvailable)
	require.ErrorIs(t, d.Put(context.Background(), "journal.bak", nil), types.ErrNoStoreAvailable)
	require.NoError(t, d.Close())
}
