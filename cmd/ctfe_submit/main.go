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

// The ctfe_submit binary validates certificate chains against a set of
// trusted roots and issues SCTs for them, recording every logged entry in a
// record store so that resubmissions get their original SCT back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/ct-frontend/cmd"
	"github.com/google/ct-frontend/cmd/internal/provider"
	"github.com/google/ct-frontend/crypto"
	"github.com/google/ct-frontend/crypto/keys/pem"
	"github.com/google/ct-frontend/crypto/keys/pkcs11"
	"github.com/google/ct-frontend/ctfe"
	"github.com/google/ct-frontend/internal/config"
	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/monitoring/prometheus"
	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/storage/cache"
	"github.com/google/ct-frontend/util/clock"
	prom "github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"
)

var (
	entryType = flag.String("entry_type", "x509", "Kind of entry the submitted chains are for: x509 or precert")
	flagFile  = flag.String("config", "", "Config file containing flags, file contents can be overridden by command line flags")
)

// submission is the JSON line printed for each submitted file.
type submission struct {
	File   string               `json:"file"`
	Result string               `json:"result"`
	Error  string               `json:"error,omitempty"`
	SCT    *ct.AddChainResponse `json:"sct,omitempty"`
}

func main() {
	klog.InitFlags(nil)
	cfg, err := config.LoadConfigFile()
	if err != nil {
		klog.Exitf("Failed to load config: %v", err)
	}
	if cfg.StorageSystem == "" {
		cfg.StorageSystem = provider.DefaultStorageSystem
	}
	config.RegisterFlags(flag.CommandLine, cfg)
	flag.Parse()
	defer klog.Flush()

	if *flagFile != "" {
		if err := cmd.ParseFlagFile(*flagFile); err != nil {
			klog.Exitf("Failed to load flags from config file %q: %s", *flagFile, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		klog.Exitf("Invalid configuration: %v", err)
	}
	kind, err := parseEntryType(*entryType)
	if err != nil {
		klog.Exitf("Invalid --entry_type: %v", err)
	}

	reg := prom.NewRegistry()
	mf := prometheus.MetricFactory{Prefix: "ctfe_", Registerer: reg}

	fe, closeStore, err := newFrontend(cfg, mf)
	if err != nil {
		klog.Exitf("Failed to start frontend: %v", err)
	}

	failures := submitFiles(context.Background(), fe, kind, flag.Args(), os.Stdout)

	if err := fe.Close(); err != nil {
		klog.Warningf("Failed to release log signer: %v", err)
	}
	if err := closeStore(); err != nil {
		klog.Warningf("Failed to close storage: %v", err)
	}
	if cfg.MetricsFile != "" {
		if err := prom.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			klog.Warningf("Failed to write metrics to %q: %v", cfg.MetricsFile, err)
		}
	}
	if failures > 0 {
		klog.Flush()
		os.Exit(1)
	}
}

func parseEntryType(s string) (ct.LogEntryType, error) {
	switch s {
	case "x509":
		return ct.X509LogEntryType, nil
	case "precert":
		return ct.PrecertLogEntryType, nil
	}
	return 0, fmt.Errorf("unknown entry type %q", s)
}

// newFrontend assembles a Frontend from cfg. The returned function closes
// the record store.
func newFrontend(cfg *config.Config, mf monitoring.MetricFactory) (*ctfe.Frontend, func() error, error) {
	roots, err := crypto.LoadPEMCertPool(cfg.RootsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading roots: %v", err)
	}
	klog.Infof("Loaded %d trusted root(s) from %s", roots.Len(), cfg.RootsFile)

	signer, err := newSigner(cfg)
	if err != nil {
		return nil, nil, err
	}

	sp, err := storage.NewProvider(cfg.StorageSystem, mf)
	if err != nil {
		signer.Close()
		return nil, nil, fmt.Errorf("failed to get storage provider %q: %v", cfg.StorageSystem, err)
	}
	raw := storage.WithMetrics(sp.Database(), mf, cfg.StorageSystem)
	if cfg.CacheSize > 0 {
		cached, err := cache.New(raw, cfg.CacheSize)
		if err != nil {
			signer.Close()
			sp.Close()
			return nil, nil, err
		}
		raw = cached
	}
	db := storage.WithCodec[*ctfe.LoggedRecord](raw, ctfe.RecordCodec{})

	checker := ctfe.NewCertChecker(roots, ctfe.CheckerOptions{
		RejectExpired:  cfg.RejectExpired,
		MaxChainLength: cfg.MaxChainLength,
	})
	fe := ctfe.NewFrontend(
		ctfe.NewSubmissionHandler(checker, mf),
		ctfe.NewFrontendSigner(db, signer, clock.System, mf),
	)
	return fe, sp.Close, nil
}

func newSigner(cfg *config.Config) (*crypto.Signer, error) {
	if cfg.PKCS11.Module != "" {
		pub, err := os.ReadFile(cfg.PKCS11.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading PKCS#11 public key: %v", err)
		}
		k, err := pkcs11.FromConfig(cfg.PKCS11.Module, pkcs11.Config{
			TokenLabel: cfg.PKCS11.TokenLabel,
			PIN:        cfg.PKCS11.PIN,
			PublicKey:  string(pub),
		})
		if err != nil {
			return nil, fmt.Errorf("opening PKCS#11 key: %v", err)
		}
		return crypto.NewSigner(k)
	}
	k, err := pem.ReadPrivateKeyFile(cfg.KeyFile, cfg.KeyPassword)
	if err != nil {
		return nil, fmt.Errorf("loading private key: %v", err)
	}
	return crypto.NewSigner(k)
}

// submitFiles submits each file and writes one JSON line per file to w. It
// returns the number of files that could not be logged.
func submitFiles(ctx context.Context, fe *ctfe.Frontend, kind ct.LogEntryType, files []string, w io.Writer) int {
	enc := json.NewEncoder(w)
	failures := 0
	for _, f := range files {
		s := submitFile(ctx, fe, kind, f)
		if s.Error != "" {
			failures++
		}
		if err := enc.Encode(s); err != nil {
			klog.Errorf("Failed to write result for %s: %v", f, err)
			failures++
		}
	}
	return failures
}

func submitFile(ctx context.Context, fe *ctfe.Frontend, kind ct.LogEntryType, file string) submission {
	s := submission{File: file}
	data, err := os.ReadFile(file)
	if err != nil {
		s.Result, s.Error = "ERROR", err.Error()
		return s
	}
	result, sct, err := fe.Submit(ctx, data, kind)
	if err != nil {
		if status, ok := ctfe.StatusOf(err); ok {
			s.Result = status.String()
		} else {
			s.Result = "ERROR"
		}
		s.Error = err.Error()
		return s
	}
	s.Result = result.String()
	if s.SCT, err = ctfe.AddChainResponse(sct); err != nil {
		s.Result, s.Error = "ERROR", err.Error()
	}
	return s
}
