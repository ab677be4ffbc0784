//go:build !no_sqlite

package provider

import (
	_ "github.com/google/ct-frontend/storage/sqlite"
)
