//go:build !no_file

package provider

import (
	_ "github.com/google/ct-frontend/storage/file"
)
