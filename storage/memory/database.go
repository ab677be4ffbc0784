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

package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/google/ct-frontend/storage"
)

const degree = 8

type item[T any] struct {
	hash   []byte
	record T
}

func less[T any](a, b item[T]) bool {
	return bytes.Compare(a.hash, b.hash) < 0
}

// Database is an in-memory storage.Database.
type Database[T any] struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[item[T]]
	closed bool
}

var _ storage.Database[[]byte] = &Database[[]byte]{}

// NewDatabase returns an empty Database.
func NewDatabase[T any]() *Database[T] {
	return &Database[T]{tree: btree.NewG(degree, less[T])}
}

// Get returns the record stored under hash.
func (d *Database[T]) Get(_ context.Context, hash []byte) (T, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var zero T
	if d.closed {
		return zero, false, storage.ErrClosed
	}
	it, ok := d.tree.Get(item[T]{hash: hash})
	if !ok {
		return zero, false, nil
	}
	return it.record, true, nil
}

// PutIfAbsent stores record under hash unless a record is already present.
func (d *Database[T]) PutIfAbsent(_ context.Context, hash []byte, record T) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false, storage.ErrClosed
	}
	key := item[T]{hash: append([]byte(nil), hash...), record: record}
	if d.tree.Has(key) {
		return false, nil
	}
	d.tree.ReplaceOrInsert(key)
	return true, nil
}

// Len returns the number of stored records.
func (d *Database[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Len()
}

// Close drops all records. Later operations fail with storage.ErrClosed.
func (d *Database[T]) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.tree.Clear(false)
	return nil
}
