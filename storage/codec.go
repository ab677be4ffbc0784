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
	"fmt"
)

// Codec converts records to and from the bytes held by a byte-oriented
// Database.
type Codec[T any] interface {
	Marshal(record T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// WithCodec lifts a byte-oriented Database to one holding records of type T.
func WithCodec[T any](raw Database[[]byte], codec Codec[T]) Database[T] {
	return &codecDatabase[T]{raw: raw, codec: codec}
}

type codecDatabase[T any] struct {
	raw   Database[[]byte]
	codec Codec[T]
}

func (c *codecDatabase[T]) Get(ctx context.Context, hash []byte) (T, bool, error) {
	var zero T
	data, ok, err := c.raw.Get(ctx, hash)
	if err != nil || !ok {
		return zero, ok, err
	}
	record, err := c.codec.Unmarshal(data)
	if err != nil {
		return zero, false, fmt.Errorf("decoding record %x: %w", hash, err)
	}
	return record, true, nil
}

func (c *codecDatabase[T]) PutIfAbsent(ctx context.Context, hash []byte, record T) (bool, error) {
	data, err := c.codec.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("encoding record %x: %w", hash, err)
	}
	return c.raw.PutIfAbsent(ctx, hash, data)
}

func (c *codecDatabase[T]) Close() error {
	return c.raw.Close()
}
