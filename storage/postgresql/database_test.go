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

package postgresql

import (
	"context"
	"testing"

	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/storage/testonly"
)

// openTestDB connects to --postgresql_uri, skipping the test if no server is
// reachable. Each call gets a freshly created table.
func openTestDB(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()
	pool, err := OpenDB(*postgreSQLURI)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("PostgreSQL not available: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS records"); err != nil {
		pool.Close()
		t.Fatalf("dropping table: %v", err)
	}
	db, err := NewDatabase(ctx, pool)
	if err != nil {
		pool.Close()
		t.Fatalf("NewDatabase(): %v", err)
	}
	return db
}

func TestPostgreSQLDatabase(t *testing.T) {
	testonly.RunDatabaseTests(t, func(t *testing.T) storage.Database[[]byte] {
		return openTestDB(t)
	})
}

func TestBuildURIWithoutTLS(t *testing.T) {
	const uri = "postgresql:///db?host=localhost"
	got, err := buildURI(uri)
	if err != nil {
		t.Fatalf("buildURI(): %v", err)
	}
	if got != uri {
		t.Errorf("buildURI()=%q, want %q", got, uri)
	}
}
