//go:build !no_mysql

package provider

import (
	_ "github.com/google/ct-frontend/storage/mysql"
)
