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

package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/storage/memory"
	"github.com/google/ct-frontend/storage/testonly"
)

func TestCacheConformance(t *testing.T) {
	testonly.RunDatabaseTests(t, func(t *testing.T) storage.Database[[]byte] {
		db, err := New[[]byte](memory.NewDatabase[[]byte](), 16)
		if err != nil {
			t.Fatalf("New(): %v", err)
		}
		return db
	})
}

func TestNewBadSize(t *testing.T) {
	if _, err := New[[]byte](memory.NewDatabase[[]byte](), 0); err == nil {
		t.Error("New(size=0)=nil, want error")
	}
}

func TestGetReadsThroughOnce(t *testing.T) {
	ctx := context.Background()
	hash := testonly.Hash("a")
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := storage.NewMockDatabase[[]byte](ctrl)
	mockDB.EXPECT().Get(gomock.Any(), hash).Return([]byte("record"), true, nil).Times(1)

	db, err := New[[]byte](mockDB, 4)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	for i := 0; i < 3; i++ {
		got, ok, err := db.Get(ctx, hash)
		if err != nil || !ok || string(got) != "record" {
			t.Fatalf("Get() #%d=%q, %v, %v, want record, true, nil", i, got, ok, err)
		}
	}
}

func TestMissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	hash := testonly.Hash("a")
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := storage.NewMockDatabase[[]byte](ctrl)
	gomock.InOrder(
		mockDB.EXPECT().Get(gomock.Any(), hash).Return(nil, false, nil),
		mockDB.EXPECT().Get(gomock.Any(), hash).Return(nil, false, errors.New("unavailable")),
		mockDB.EXPECT().Get(gomock.Any(), hash).Return([]byte("record"), true, nil),
	)

	db, err := New[[]byte](mockDB, 4)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if _, ok, err := db.Get(ctx, hash); ok || err != nil {
		t.Fatalf("Get()=_, %v, %v, want false, nil", ok, err)
	}
	if _, _, err := db.Get(ctx, hash); err == nil {
		t.Fatal("Get()=nil, want error")
	}
	if got, ok, err := db.Get(ctx, hash); !ok || err != nil || string(got) != "record" {
		t.Fatalf("Get()=%q, %v, %v, want record, true, nil", got, ok, err)
	}
	if got, want := db.Len(), 1; got != want {
		t.Errorf("Len()=%d, want %d", got, want)
	}
}

func TestPutIfAbsentPopulatesCache(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := storage.NewMockDatabase[[]byte](ctrl)
	mockDB.EXPECT().PutIfAbsent(gomock.Any(), testonly.Hash("new"), []byte("r1")).Return(true, nil)
	mockDB.EXPECT().PutIfAbsent(gomock.Any(), testonly.Hash("old"), []byte("r2")).Return(false, nil)
	mockDB.EXPECT().Get(gomock.Any(), testonly.Hash("old")).Return([]byte("r0"), true, nil)

	db, err := New[[]byte](mockDB, 4)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if ok, err := db.PutIfAbsent(ctx, testonly.Hash("new"), []byte("r1")); !ok || err != nil {
		t.Fatalf("PutIfAbsent(new)=%v, %v, want true, nil", ok, err)
	}
	if ok, err := db.PutIfAbsent(ctx, testonly.Hash("old"), []byte("r2")); ok || err != nil {
		t.Fatalf("PutIfAbsent(old)=%v, %v, want false, nil", ok, err)
	}
	// "new" is served from the cache, "old" must be read from the store.
	if got, ok, err := db.Get(ctx, testonly.Hash("new")); !ok || err != nil || string(got) != "r1" {
		t.Errorf("Get(new)=%q, %v, %v, want r1, true, nil", got, ok, err)
	}
	if got, ok, err := db.Get(ctx, testonly.Hash("old")); !ok || err != nil || string(got) != "r0" {
		t.Errorf("Get(old)=%q, %v, %v, want r0, true, nil", got, ok, err)
	}
}
