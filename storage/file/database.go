// Copyright 2026 Google LLC. All Rights Reserved.
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

// Package file provides a record store that keeps one file per record.
//
// A record is stored under its hex-encoded hash. The leading characters of
// the hash name a chain of nested directories, one character per level, so
// that no single directory grows too large. Files are written to a temporary
// name and linked into place only if no file with the final name exists, so
// a record becomes visible completely or not at all.
package file

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"git.glasklar.is/sigsum/dependencies/safefile"
	"github.com/google/ct-frontend/storage"
)

// MaxDepth is the deepest directory sharding supported.
const MaxDepth = 8

// Database is a storage.Database of byte records held in a directory tree.
type Database struct {
	dir   string
	depth int

	mu     sync.RWMutex
	closed bool
}

var _ storage.Database[[]byte] = &Database{}

// NewDatabase opens a store rooted at dir, creating dir if needed. depth is
// the number of directory levels between dir and the record files.
func NewDatabase(dir string, depth int) (*Database, error) {
	if depth < 0 || depth > MaxDepth {
		return nil, fmt.Errorf("storage depth %d out of range [0, %d]", depth, MaxDepth)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &Database{dir: dir, depth: depth}, nil
}

func (d *Database) path(hash []byte) (string, error) {
	if len(hash) == 0 {
		return "", errors.New("empty hash")
	}
	name := hex.EncodeToString(hash)
	parts := make([]string, 0, d.depth+2)
	parts = append(parts, d.dir)
	for i := 0; i < d.depth && i < len(name); i++ {
		parts = append(parts, name[i:i+1])
	}
	return filepath.Join(append(parts, name)...), nil
}

// Get reads the record stored under hash.
func (d *Database) Get(_ context.Context, hash []byte) ([]byte, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, false, storage.ErrClosed
	}
	p, err := d.path(hash)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// PutIfAbsent writes record under hash unless a file for hash exists.
func (d *Database) PutIfAbsent(_ context.Context, hash []byte, record []byte) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false, storage.ErrClosed
	}
	p, err := d.path(hash)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return false, err
	}

	f, err := safefile.Create(p, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	if _, err := f.Write(record); err != nil {
		return false, err
	}
	// Atomically create file, or fail if file already exists.
	if err := f.CommitIfNotExists(); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close marks the store closed. Records stay on disk.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
