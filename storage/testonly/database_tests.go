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

// Package testonly holds conformance tests shared by the record store
// backends.
package testonly

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/google/ct-frontend/storage"
	"golang.org/x/sync/errgroup"
)

// DatabaseTester runs the conformance tests against fresh databases created
// by NewDatabase. Each test gets its own database and closes it.
type DatabaseTester struct {
	NewDatabase func(t *testing.T) storage.Database[[]byte]
}

// RunDatabaseTests runs all conformance tests against databases from newDB.
func RunDatabaseTests(t *testing.T, newDB func(t *testing.T) storage.Database[[]byte]) {
	tester := &DatabaseTester{NewDatabase: newDB}
	tester.RunAllTests(t)
}

// RunAllTests runs all the conformance tests.
func (tester *DatabaseTester) RunAllTests(t *testing.T) {
	t.Run("TestGetMissing", tester.TestGetMissing)
	t.Run("TestPutThenGet", tester.TestPutThenGet)
	t.Run("TestPutIfAbsentKeepsFirst", tester.TestPutIfAbsentKeepsFirst)
	t.Run("TestDistinctHashes", tester.TestDistinctHashes)
	t.Run("TestConcurrentPutIfAbsent", tester.TestConcurrentPutIfAbsent)
	t.Run("TestClosed", tester.TestClosed)
}

// Hash returns a deterministic 32-byte key derived from s.
func Hash(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func (tester *DatabaseTester) newDB(t *testing.T) storage.Database[[]byte] {
	t.Helper()
	db := tester.NewDatabase(t)
	t.Cleanup(func() { db.Close() })
	return db
}

// TestGetMissing checks that an absent hash is reported as not found.
func (tester *DatabaseTester) TestGetMissing(t *testing.T) {
	ctx := context.Background()
	db := tester.newDB(t)
	got, ok, err := db.Get(ctx, Hash("missing"))
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if ok || got != nil {
		t.Errorf("Get()=%x, %v, want nil, false", got, ok)
	}
}

// TestPutThenGet checks that a stored record is returned intact.
func (tester *DatabaseTester) TestPutThenGet(t *testing.T) {
	ctx := context.Background()
	db := tester.newDB(t)
	hash, record := Hash("one"), []byte("record one")

	inserted, err := db.PutIfAbsent(ctx, hash, record)
	if err != nil {
		t.Fatalf("PutIfAbsent(): %v", err)
	}
	if !inserted {
		t.Fatal("PutIfAbsent()=false on empty database, want true")
	}
	got, ok, err := db.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if !ok || !bytes.Equal(got, record) {
		t.Errorf("Get()=%q, %v, want %q, true", got, ok, record)
	}
}

// TestPutIfAbsentKeepsFirst checks that a second write never overwrites.
func (tester *DatabaseTester) TestPutIfAbsentKeepsFirst(t *testing.T) {
	ctx := context.Background()
	db := tester.newDB(t)
	hash := Hash("dup")

	if inserted, err := db.PutIfAbsent(ctx, hash, []byte("first")); err != nil || !inserted {
		t.Fatalf("PutIfAbsent(first)=%v, %v, want true, nil", inserted, err)
	}
	inserted, err := db.PutIfAbsent(ctx, hash, []byte("second"))
	if err != nil {
		t.Fatalf("PutIfAbsent(second): %v", err)
	}
	if inserted {
		t.Error("PutIfAbsent(second)=true, want false")
	}
	got, ok, err := db.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if !ok || string(got) != "first" {
		t.Errorf("Get()=%q, %v, want \"first\", true", got, ok)
	}
}

// TestDistinctHashes checks that records under different hashes do not
// interfere.
func (tester *DatabaseTester) TestDistinctHashes(t *testing.T) {
	ctx := context.Background()
	db := tester.newDB(t)
	const n = 20
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		if inserted, err := db.PutIfAbsent(ctx, Hash(key), []byte(key)); err != nil || !inserted {
			t.Fatalf("PutIfAbsent(%s)=%v, %v, want true, nil", key, inserted, err)
		}
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		got, ok, err := db.Get(ctx, Hash(key))
		if err != nil {
			t.Fatalf("Get(%s): %v", key, err)
		}
		if !ok || string(got) != key {
			t.Errorf("Get(%s)=%q, %v, want %q, true", key, got, ok, key)
		}
	}
}

// TestConcurrentPutIfAbsent checks that exactly one of many concurrent
// writers of the same hash succeeds, and that its record is the one kept.
func (tester *DatabaseTester) TestConcurrentPutIfAbsent(t *testing.T) {
	ctx := context.Background()
	db := tester.newDB(t)
	hash := Hash("race")

	const writers = 16
	inserted := make([]bool, writers)
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			ok, err := db.PutIfAbsent(ctx, hash, []byte(fmt.Sprintf("writer-%d", i)))
			inserted[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("PutIfAbsent(): %v", err)
	}

	winner := -1
	for i, ok := range inserted {
		if !ok {
			continue
		}
		if winner >= 0 {
			t.Fatalf("writers %d and %d both inserted", winner, i)
		}
		winner = i
	}
	if winner < 0 {
		t.Fatal("no writer inserted")
	}
	got, ok, err := db.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if want := fmt.Sprintf("writer-%d", winner); !ok || string(got) != want {
		t.Errorf("Get()=%q, %v, want %q, true", got, ok, want)
	}
}

// TestClosed checks that a closed database refuses operations.
func (tester *DatabaseTester) TestClosed(t *testing.T) {
	ctx := context.Background()
	db := tester.NewDatabase(t)
	if err := db.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	if _, _, err := db.Get(ctx, Hash("closed")); err == nil {
		t.Error("Get() after Close()=nil, want error")
	}
	if _, err := db.PutIfAbsent(ctx, Hash("closed"), []byte("x")); err == nil {
		t.Error("PutIfAbsent() after Close()=nil, want error")
	}
}
