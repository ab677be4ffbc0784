//go:build !no_redis

package provider

import (
	_ "github.com/google/ct-frontend/storage/redis"
)
