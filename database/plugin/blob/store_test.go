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

package blob_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/govern/database/plugin/blob"
	"github.com/blinklabs-io/govern/database/plugin/blob/aws"
	"github.com/blinklabs-io/govern/database/plugin/blob/gcs"
	"github.com/blinklabs-io/govern/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemes(t *testing.T) {
	s, err := blob.New("s3://backups/govern", nil)
	require.NoError(t, err)
	assert.IsType(t, &aws.BlobStoreS3{}, s)

	s, err = blob.New("gs://backups", nil)
	require.NoError(t, err)
	assert.IsType(t, &gcs.BlobStoreGCS{}, s)

	s, err = blob.New("file:///var/backups", nil)
	require.NoError(t, err)
	assert.IsType(t, &blob.FileStore{}, s)

	s, err = blob.New("backups", nil)
	require.NoError(t, err)
	assert.IsType(t, &blob.FileStore{}, s)

	_, err = blob.New("ftp://backups", nil)
	require.ErrorContains(t, err, "unsupported")
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := blob.New("file://"+filepath.Join(t.TempDir(), "backups"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))
	defer s.Close() //nolint:errcheck

	_, err = s.Get(ctx, "nightly/journal.bak")
	require.ErrorIs(t, err, types.ErrBlobKeyNotFound)

	require.NoError(t, s.Put(ctx, "nightly/journal.bak", bytes.NewReader([]byte("first"))))
	require.NoError(t, s.Put(ctx, "nightly/journal.bak", bytes.NewReader([]byte("second"))))
	r, err := s.Get(ctx, "nightly/journal.bak")
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}
