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

// Package gcs stores journal backups in a Google Cloud Storage bucket
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/blinklabs-io/govern/database/types"
	"google.golang.org/api/option"
)

// BlobStoreGCS reads and writes objects under a key prefix of one bucket
type BlobStoreGCS struct {
	logger          *slog.Logger
	client          *storage.Client
	bucket          *storage.BucketHandle
	bucketName      string
	prefix          string
	credentialsFile string
}

// ParseURI splits "gs://bucket" or "gs://bucket/prefix". The gcs:// scheme
// is accepted too.
func ParseURI(uri string) (string, string, error) {
	path, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		path, ok = strings.CutPrefix(uri, "gcs://")
	}
	if !ok {
		return "", "", errors.New("gcs blob: expected 'gs://<bucket>[/prefix]'")
	}
	bucket, keyPrefix, _ := strings.Cut(path, "/")
	if bucket == "" {
		return "", "", errors.New("gcs blob: bucket not set")
	}
	keyPrefix = strings.TrimSuffix(keyPrefix, "/")
	if keyPrefix != "" {
		keyPrefix += "/"
	}
	return bucket, keyPrefix, nil
}

// New creates a GCS blob store from a "gs://bucket[/prefix]" URI
func New(uri string, logger *slog.Logger) (*BlobStoreGCS, error) {
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

// NewWithOptions creates a GCS blob store. The client is created by Start.
func NewWithOptions(opts ...BlobStoreGCSOptionFunc) (*BlobStoreGCS, error) {
	d := &BlobStoreGCS{}
	for _, opt := range opts {
		opt(d)
	}
	if d.bucketName == "" {
		return nil, errors.New("gcs blob: bucket not set")
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return d, nil
}

// Start creates the storage client. Credentials come from the configured
// file or the application default credentials.
func (d *BlobStoreGCS) Start(ctx context.Context) error {
	var clientOpts []option.ClientOption
	clientOpts = append(clientOpts, storage.WithDisabledClientMetrics())
	if d.credentialsFile != "" {
		if _, err := os.Stat(d.credentialsFile); err != nil {
			return fmt.Errorf("gcs blob: credentials file: %w", err)
		}
		clientOpts = append(
			clientOpts,
			option.WithCredentialsFile(d.credentialsFile),
		)
	}
	client, err := storage.NewGRPCClient(ctx, clientOpts...)
	if err != nil {
		return fmt.Errorf("gcs blob: failed in creating storage client: %w", err)
	}
	d.client = client
	d.bucket = client.Bucket(d.bucketName)
	d.logger.Debug(
		"gcs blob store started",
		"component", "database",
		"bucket", d.bucketName,
		"prefix", d.prefix,
	)
	return nil
}

// Close closes the GCS client
func (d *BlobStoreGCS) Close() error {
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	d.bucket = nil
	return err
}

// Bucket returns the bucket name
func (d *BlobStoreGCS) Bucket() string {
	return d.bucketName
}

func (d *BlobStoreGCS) fullKey(key string) string {
	return d.prefix + key
}

// Put streams r into the object at key
func (d *BlobStoreGCS) Put(ctx context.Context, key string, r io.Reader) error {
	if d.bucket == nil {
		return types.ErrNoStoreAvailable
	}
	w := d.bucket.Object(d.fullKey(key)).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close() //nolint:errcheck
		return fmt.Errorf("gcs blob: put %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs blob: put %s: %w", key, err)
	}
	return nil
}

// Get opens the object at key. The caller closes the reader.
func (d *BlobStoreGCS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if d.bucket == nil {
		return nil, types.ErrNoStoreAvailable
	}
	r, err := d.bucket.Object(d.fullKey(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, types.ErrBlobKeyNotFound
		}
		return nil, fmt.Errorf("gcs blob: get %s: %w", key, err)
	}
	return r, nil
}
