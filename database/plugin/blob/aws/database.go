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

// Package aws stores journal backups in an S3 bucket
package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/blinklabs-io/govern/database/types"
)

// BlobStoreS3 reads and writes objects under a key prefix of one bucket
type BlobStoreS3 struct {
	logger   *slog.Logger
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	region   string
	endpoint string
	timeout  time.Duration
}

// ParseURI splits "s3://bucket" or "s3://bucket/prefix". A non-empty prefix
// always ends in a slash.
func ParseURI(uri string) (string, string, error) {
	path, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", errors.New("s3 blob: expected 's3://<bucket>[/prefix]'")
	}
	bucket, keyPrefix, _ := strings.Cut(path, "/")
	if bucket == "" {
		return "", "", errors.New("s3 blob: bucket not set")
	}
	keyPrefix = strings.TrimSuffix(keyPrefix, "/")
	if keyPrefix != "" {
		keyPrefix += "/"
	}
	return bucket, keyPrefix, nil
}

// New creates an S3 blob store from an "s3://bucket[/prefix]" URI
func New(uri string, logger *slog.Logger) (*BlobStoreS3, error) {
	bucket, prefix, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(
		WithBucket(bucket),
		WithPrefix(prefix),
		WithLogger(logger),
	)
}

// NewWithOptions creates an S3 blob store. The client is created by Start.
func NewWithOptions(opts ...BlobStoreS3OptionFunc) (*BlobStoreS3, error) {
	d := &BlobStoreS3{}
	for _, opt := range opts {
		opt(d)
	}
	if d.bucket == "" {
		return nil, errors.New("s3 blob: bucket not set")
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if d.timeout == 0 {
		d.timeout = 60 * time.Second
	}
	return d, nil
}

// Start loads the AWS config from the environment and creates the client
func (d *BlobStoreS3) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	var loadOpts []func(*config.LoadOptions) error
	if d.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(d.region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("s3 blob: load AWS config: %w", err)
	}
	d.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if d.endpoint != "" {
			o.BaseEndpoint = aws.String(d.endpoint)
			o.UsePathStyle = true
		}
	})
	d.uploader = manager.NewUploader(d.client)
	d.logger.Debug(
		"s3 blob store started",
		"component", "database",
		"bucket", d.bucket,
		"prefix", d.prefix,
	)
	return nil
}

// Close implements io.Closer. The S3 client holds no resources.
func (d *BlobStoreS3) Close() error {
	return nil
}

// Bucket returns the bucket name
func (d *BlobStoreS3) Bucket() string {
	return d.bucket
}

func (d *BlobStoreS3) fullKey(key string) string {
	return d.prefix + key
}

// Put streams r into the object at key
func (d *BlobStoreS3) Put(ctx context.Context, key string, r io.Reader) error {
	if d.uploader == nil {
		return types.ErrNoStoreAvailable
	}
	_, err := d.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.fullKey(key)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("s3 blob: put %s: %w", key, err)
	}
	return nil
}

// Get opens the object at key. The caller closes the reader.
func (d *BlobStoreS3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if d.client == nil {
		return nil, types.ErrNoStoreAvailable
	}
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.fullKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, types.ErrBlobKeyNotFound
		}
		return nil, fmt.Errorf("s3 blob: get %s: %w", key, err)
	}
	return out.Body, nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
