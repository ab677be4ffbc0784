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

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/storage/testonly"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	sqlDB, err := OpenDB(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("OpenDB(): %v", err)
	}
	db, err := NewDatabase(context.Background(), sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("NewDatabase(): %v", err)
	}
	return db
}

func TestSQLiteDatabase(t *testing.T) {
	testonly.RunDatabaseTests(t, func(t *testing.T) storage.Database[[]byte] {
		return newTestDatabase(t)
	})
}

func TestSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	defer db.Close()
	if _, err := db.PutIfAbsent(ctx, testonly.Hash("a"), []byte("a")); err != nil {
		t.Fatalf("PutIfAbsent(): %v", err)
	}
	again, err := NewDatabase(ctx, db.db)
	if err != nil {
		t.Fatalf("NewDatabase() on existing schema: %v", err)
	}
	if _, ok, err := again.Get(ctx, testonly.Hash("a")); err != nil || !ok {
		t.Errorf("Get()=%v, %v, want true, nil", ok, err)
	}
}
