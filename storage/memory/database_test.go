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
	"context"
	"testing"

	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/storage/testonly"
)

func TestMemoryDatabase(t *testing.T) {
	testonly.RunDatabaseTests(t, func(t *testing.T) storage.Database[[]byte] {
		return NewDatabase[[]byte]()
	})
}

type record struct {
	name string
}

func TestTypedRecords(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase[*record]()
	defer db.Close()

	r := &record{name: "a"}
	if inserted, err := db.PutIfAbsent(ctx, testonly.Hash("a"), r); err != nil || !inserted {
		t.Fatalf("PutIfAbsent()=%v, %v, want true, nil", inserted, err)
	}
	got, ok, err := db.Get(ctx, testonly.Hash("a"))
	if err != nil || !ok {
		t.Fatalf("Get()=%v, %v, %v", got, ok, err)
	}
	if got != r {
		t.Errorf("Get() returned a different record: %v", got)
	}
	if got, want := db.Len(), 1; got != want {
		t.Errorf("Len()=%d, want %d", got, want)
	}
}

func TestCallerCannotMutateKey(t *testing.T) {
	ctx := context.Background()
	db := NewDatabase[[]byte]()
	defer db.Close()

	hash := testonly.Hash("key")
	if _, err := db.PutIfAbsent(ctx, hash, []byte("v")); err != nil {
		t.Fatalf("PutIfAbsent(): %v", err)
	}
	hash[0] ^= 0xff
	if _, ok, _ := db.Get(ctx, testonly.Hash("key")); !ok {
		t.Error("record lost after caller modified its hash slice")
	}
}

func TestProvider(t *testing.T) {
	p, err := storage.NewProvider("memory", nil)
	if err != nil {
		t.Fatalf("NewProvider(memory): %v", err)
	}
	defer p.Close()
	if p.Database() == nil {
		t.Fatal("Database()=nil")
	}
}
