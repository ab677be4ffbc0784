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

// Package config holds the instance configuration of the frontend, read
// from a TOML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath names the environment variable holding the path of the
// config file.
const EnvConfigPath = "CTFE_CONFIG"

// PKCS11 configures an HSM-held log key.
type PKCS11 struct {
	Module        string `toml:"module"`
	TokenLabel    string `toml:"token-label"`
	PIN           string `toml:"pin"`
	PublicKeyPath string `toml:"public-key"`
}

// Config is the frontend instance configuration.
type Config struct {
	RootsFile      string `toml:"roots-file"`
	KeyFile        string `toml:"key-file"`
	KeyPassword    string `toml:"key-password"`
	StorageSystem  string `toml:"storage-system"`
	CacheSize      int    `toml:"cache-size"`
	RejectExpired  bool   `toml:"reject-expired"`
	MaxChainLength int    `toml:"max-chain-length"`
	MetricsFile    string `toml:"metrics-file"`
	PKCS11         `toml:"pkcs11"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		RootsFile:      "",
		KeyFile:        "",
		KeyPassword:    "",
		StorageSystem:  "memory",
		CacheSize:      0,
		RejectExpired:  false,
		MaxChainLength: 10,
		MetricsFile:    "",
	}
}

// LoadConfig reads a TOML configuration on top of the defaults. Keys that do
// not correspond to a setting are an error.
func LoadConfig(f io.Reader) (*Config, error) {
	conf := NewConfig()
	md, err := toml.NewDecoder(f).Decode(conf)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadConfigFile reads the config file named by $CTFE_CONFIG. Without it,
// the defaults are returned.
func LoadConfigFile() (*Config, error) {
	path, ok := os.LookupEnv(EnvConfigPath)
	if !ok {
		return NewConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks settings that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cache-size must not be negative, got %d", c.CacheSize)
	}
	if c.MaxChainLength < 1 {
		return fmt.Errorf("max-chain-length must be positive, got %d", c.MaxChainLength)
	}
	if c.KeyFile != "" && c.PKCS11.Module != "" {
		return errors.New("key-file and pkcs11 are mutually exclusive")
	}
	return nil
}

// RegisterFlags binds the settings of c to flags in fs, with the current
// values as defaults.
func RegisterFlags(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.RootsFile, "roots_file", c.RootsFile, "File of concatenated PEM certificates trusted as roots")
	fs.StringVar(&c.KeyFile, "key_file", c.KeyFile, "PEM file holding the log's private key")
	fs.StringVar(&c.KeyPassword, "key_password", c.KeyPassword, "Password of the log's private key")
	fs.StringVar(&c.StorageSystem, "storage_system", c.StorageSystem, "Record store backend")
	fs.IntVar(&c.CacheSize, "cache_size", c.CacheSize, "Number of records cached in memory in front of the store, 0 to disable")
	fs.BoolVar(&c.RejectExpired, "reject_expired", c.RejectExpired, "Reject chains whose leaf has expired")
	fs.IntVar(&c.MaxChainLength, "max_chain_length", c.MaxChainLength, "Longest accepted chain")
	fs.StringVar(&c.MetricsFile, "metrics_file", c.MetricsFile, "If set, write metrics in Prometheus text format to this file on exit")
	fs.StringVar(&c.PKCS11.Module, "pkcs11_module", c.PKCS11.Module, "Path of the PKCS#11 module holding the log key")
	fs.StringVar(&c.PKCS11.TokenLabel, "pkcs11_token_label", c.PKCS11.TokenLabel, "PKCS#11 token label")
	fs.StringVar(&c.PKCS11.PIN, "pkcs11_pin", c.PKCS11.PIN, "PKCS#11 token PIN")
	fs.StringVar(&c.PKCS11.PublicKeyPath, "pkcs11_public_key", c.PKCS11.PublicKeyPath, "PEM file holding the public key of the PKCS#11 log key")
}
