//go:build !no_memory

package provider

import (
	_ "github.com/google/ct-frontend/storage/memory"
)
