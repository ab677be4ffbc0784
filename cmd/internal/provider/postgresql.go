//go:build !no_postgresql

package provider

import (
	_ "github.com/google/ct-frontend/storage/postgresql"
)
