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

package redis

import (
	"flag"

	"github.com/go-redis/redis"
	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/storage"
	"k8s.io/klog/v2"
)

var (
	redisAddr     = flag.String("redis_addr", "localhost:6379", "Address of the Redis server holding the record store")
	redisPassword = flag.String("redis_password", "", "Password for the Redis server")
	redisDB       = flag.Int("redis_db", 0, "Redis database number")
	redisPrefix   = flag.String("redis_key_prefix", "ctfe:record:", "Prefix of the Redis keys holding records")
)

func init() {
	if err := storage.RegisterProvider("redis", newRedisStorageProvider); err != nil {
		klog.Fatalf("Failed to register storage provider redis: %v", err)
	}
}

type redisProvider struct {
	db *Database
}

func newRedisStorageProvider(_ monitoring.MetricFactory) (storage.Provider, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     *redisAddr,
		Password: *redisPassword,
		DB:       *redisDB,
	})
	if err := rdb.Ping().Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &redisProvider{db: NewDatabase(rdb, *redisPrefix)}, nil
}

func (s *redisProvider) Database() storage.Database[[]byte] {
	return s.db
}

func (s *redisProvider) Close() error {
	return s.db.Close()
}
