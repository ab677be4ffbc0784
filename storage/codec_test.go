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

package storage

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/golang/mock/gomock"
)

type intCodec struct{}

func (intCodec) Marshal(v int) ([]byte, error) {
	if v < 0 {
		return nil, errors.New("negative")
	}
	return []byte(strconv.Itoa(v)), nil
}

func (intCodec) Unmarshal(b []byte) (int, error) {
	return strconv.Atoi(string(b))
}

func TestCodecDatabase(t *testing.T) {
	ctx := context.Background()
	hash := []byte{1, 2, 3}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	raw := NewMockDatabase[[]byte](ctrl)
	raw.EXPECT().PutIfAbsent(gomock.Any(), hash, []byte("42")).Return(true, nil)
	raw.EXPECT().Get(gomock.Any(), hash).Return([]byte("42"), true, nil)
	raw.EXPECT().Close().Return(nil)

	db := WithCodec[int](raw, intCodec{})
	if ok, err := db.PutIfAbsent(ctx, hash, 42); !ok || err != nil {
		t.Fatalf("PutIfAbsent()=%v, %v, want true, nil", ok, err)
	}
	got, ok, err := db.Get(ctx, hash)
	if err != nil || !ok || got != 42 {
		t.Fatalf("Get()=%d, %v, %v, want 42, true, nil", got, ok, err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close(): %v", err)
	}
}

func TestCodecDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	hash := []byte{9}
	storeErr := errors.New("unavailable")

	for _, test := range []struct {
		desc  string
		setup func(raw *MockDatabase[[]byte])
		run   func(db Database[int]) error
		is    error
	}{
		{
			desc:  "encode",
			setup: func(raw *MockDatabase[[]byte]) {},
			run: func(db Database[int]) error {
				_, err := db.PutIfAbsent(ctx, hash, -1)
				return err
			},
		},
		{
			desc: "decode",
			setup: func(raw *MockDatabase[[]byte]) {
				raw.EXPECT().Get(gomock.Any(), hash).Return([]byte("not a number"), true, nil)
			},
			run: func(db Database[int]) error {
				_, ok, err := db.Get(ctx, hash)
				if ok {
					return errors.New("undecodable record reported as found")
				}
				return err
			},
			is: strconv.ErrSyntax,
		},
		{
			desc: "get",
			setup: func(raw *MockDatabase[[]byte]) {
				raw.EXPECT().Get(gomock.Any(), hash).Return(nil, false, storeErr)
			},
			run: func(db Database[int]) error {
				_, _, err := db.Get(ctx, hash)
				return err
			},
			is: storeErr,
		},
		{
			desc: "put",
			setup: func(raw *MockDatabase[[]byte]) {
				raw.EXPECT().PutIfAbsent(gomock.Any(), hash, []byte("7")).Return(false, storeErr)
			},
			run: func(db Database[int]) error {
				_, err := db.PutIfAbsent(ctx, hash, 7)
				return err
			},
			is: storeErr,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			raw := NewMockDatabase[[]byte](ctrl)
			test.setup(raw)

			err := test.run(WithCodec[int](raw, intCodec{}))
			if err == nil {
				t.Fatal("got nil error, want error")
			}
			if test.is != nil && !errors.Is(err, test.is) {
				t.Errorf("got error %v, want one wrapping %v", err, test.is)
			}
		})
	}
}
