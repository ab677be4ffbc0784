//go:build !no_crdb

package provider

import (
	_ "github.com/google/ct-frontend/storage/crdb"
)
