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

package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
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
		{uri: "s3://backups", bucket: "backups"},
		{uri: "s3://backups/govern", bucket: "backups", prefix: "govern/"},
		{uri: "s3://backups/govern/mainnet/", bucket: "backups", prefix: "govern/mainnet/"},
		{uri: "s3://", wantErr: true},
		{uri: "gs://backups", wantErr: true},
		{uri: "backups", wantErr: true},
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

func TestNewWithOptions(t *testing.T) {
	_, err := NewWithOptions()
	require.Error(t, err)

	d, err := NewWithOptions(
		WithBucket("backups"),
		WithPrefix("govern/"),
		WithRegion("eu-west-1"),
		WithEndpoint("http://localhost:9000"),
		WithTimeout(5*time.Second),
	)
	require.NoError(t, err)
	assert.Equal(t, "backups", d.Bucket())
	assert.Equal(t, "govern/journal.bak", d.fullKey("journal.bak"))
	assert.Equal(t, "eu-west-1", d.region)
	assert.Equal(t, 5*time.Second, d.timeout)
	assert.NotNil(t, d.logger)
}

func TestNotStarted(t *testing.T) {
	d, err := New("s3://backups", nil)
	require.NoError(t, err)
	_, err = d.Get(context.Background(), "journal.bak")
	require.ErrorIs(t, err, types.ErrNoStoreAvailable)
	require.ErrorIs(t, d.Put(context.Background(), "journal.bak", nil), types.ErrNoStoreAvailable)
	require.NoError(t, d.Close())
}

func TestIsS3NotFound(t *testing.T) {
	assert.True(t, isS3NotFound(&s3types.NoSuchKey{}))
	assert.True(t, isS3NotFound(fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "NoSuchKey"})))
	assert.False(t, isS3NotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isS3NotFound(errors.New("boom")))
}
