// Copyright 2017 Google LLC. All Rights Reserved.
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

// Package redis provides a record store backed by Redis.
package redis

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/ct-frontend/storage"
)

// RedisClient is an interface that encompasses the various methods used by
// Database, and allows selecting among different Redis client
// implementations (e.g. regular Redis, Redis Cluster, sharded, etc.)
type RedisClient interface {
	Get(key string) *redis.StringCmd
	SetNX(key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Close() error
}

// redisNoExpiry keeps a key until it is deleted.
const redisNoExpiry time.Duration = 0

// Database is a storage.Database of byte records held in Redis. Records are
// stored without expiry.
type Database struct {
	c      RedisClient
	prefix string
}

var _ storage.Database[[]byte] = &Database{}

// NewDatabase returns a store that keeps records under keys beginning with
// prefix.
func NewDatabase(client RedisClient, prefix string) *Database {
	return &Database{c: client, prefix: prefix}
}

func (d *Database) key(hash []byte) string {
	return d.prefix + hex.EncodeToString(hash)
}

// Get returns the record stored under hash.
func (d *Database) Get(ctx context.Context, hash []byte) ([]byte, bool, error) {
	client := withClientContext(ctx, d.c)
	record, err := client.Get(d.key(hash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// PutIfAbsent stores record under hash with SETNX.
func (d *Database) PutIfAbsent(ctx context.Context, hash []byte, record []byte) (bool, error) {
	client := withClientContext(ctx, d.c)
	return client.SetNX(d.key(hash), record, redisNoExpiry).Result()
}

// Close closes the client.
func (d *Database) Close() error {
	return d.c.Close()
}

func withClientContext(ctx context.Context, client RedisClient) RedisClient {
	type withContextable interface {
		WithContext(context.Context) RedisClient
	}

	switch c := client.(type) {
	// The three major Redis clients
	case *redis.Client:
		return c.WithContext(ctx)
	case *redis.ClusterClient:
		return c.WithContext(ctx)
	case *redis.Ring:
		return c.WithContext(ctx)

	// Let's also support the case where someone implements a custom client
	// that returns the RedisClient interface type (e.g. good for tests).
	case withContextable:
		return c.WithContext(ctx)
	}

	// If we can't determine a type, just return it unchanged.
	return client
}
