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

// Package blob opens the object stores that hold journal backups
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blinklabs-io/govern/database/plugin/blob/aws"
	"github.com/blinklabs-io/govern/database/plugin/blob/gcs"
	"github.com/blinklabs-io/govern/database/types"
)

type BlobStore interface {
	Start(context.Context) error
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Close() error
}

// New returns the store for a location URI. Supported schemes are s3://,
// gs:// and file://. A location without a scheme is a local directory.
func New(uri string, logger *slog.Logger) (BlobStore, error) {
	scheme, _, found := strings.Cut(uri, "://")
	if !found {
		return &FileStore{dir: uri}, nil
	}
	switch scheme {
	case "s3":
		return aws.New(uri, logger)
	case "gs", "gcs":
		return gcs.New(uri, logger)
	case "file":
		return &FileStore{dir: strings.TrimPrefix(uri, "file://")}, nil
	default:
		return nil, fmt.Errorf("unsupported blob store scheme: %s", scheme)
	}
}

// FileStore keeps objects as files under a local directory
type FileStore struct {
	dir string
}

func (f *FileStore) Start(context.Context) error {
	if f.dir == "" {
		return errors.New("file blob: directory not set")
	}
	return os.MkdirAll(f.dir, 0o755)
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, filepath.FromSlash(key))
}

// Put writes to a temporary file and renames it into place
func (f *FileStore) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := f.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (f *FileStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.ErrBlobKeyNotFound
		}
		return nil, err
	}
	return file, nil
}

func (f *FileStore) Close() error {
	return nil
}
