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

package ctfe

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/ct-frontend/monitoring"
	"github.com/google/ct-frontend/storage"
	"github.com/google/ct-frontend/util/clock"
	"k8s.io/klog/v2"
)

// LogSigner signs SCT inputs with the log's key.
type LogSigner interface {
	Sign(data []byte) (ct.DigitallySigned, error)
	KeyID() [sha256.Size]byte
}

// SubmitResult tells whether QueueEntry logged an entry or found it already
// logged.
type SubmitResult int

const (
	// New means the entry was stored with a freshly signed SCT.
	New SubmitResult = iota
	// Duplicate means the entry was already stored and its original SCT was
	// returned.
	Duplicate
)

func (r SubmitResult) String() string {
	switch r {
	case New:
		return "NEW"
	case Duplicate:
		return "DUPLICATE"
	}
	return fmt.Sprintf("SubmitResult(%d)", int(r))
}

// FrontendSigner issues SCTs for log entries, and returns the same SCT for
// every later submission of an entry. The record store is the only point
// of serialization: concurrent submissions of one entry all get the SCT of
// whichever writer stored it first.
type FrontendSigner struct {
	db     storage.Database[*LoggedRecord]
	signer LogSigner
	ts     clock.TimeSource
	closed atomic.Bool
}

// NewFrontendSigner returns a FrontendSigner that records entries in db and
// signs with signer. The FrontendSigner owns signer from then on, and
// releases it on Close.
func NewFrontendSigner(db storage.Database[*LoggedRecord], signer LogSigner, ts clock.TimeSource, mf monitoring.MetricFactory) *FrontendSigner {
	once.Do(func() { createMetrics(mf) })
	if ts == nil {
		ts = clock.System
	}
	return &FrontendSigner{db: db, signer: signer, ts: ts}
}

// QueueEntry returns the SCT for entry, signing and storing one if the entry
// has not been seen before. Record store failures are *StorageError.
func (f *FrontendSigner) QueueEntry(ctx context.Context, entry *LogEntry) (SubmitResult, *ct.SignedCertificateTimestamp, error) {
	if f.closed.Load() {
		return New, nil, ErrClosed
	}
	start := f.ts.Now()
	result, sct, err := f.queue(ctx, entry)
	label := "invalid"
	if entry != nil {
		label = entry.Type.String()
	}
	queueLatency.Observe(clock.SecondsSince(f.ts, start), label)
	switch {
	case err != nil:
		queuedEntries.Inc(label, "error")
	case result == Duplicate:
		queuedEntries.Inc(label, "duplicate")
	default:
		queuedEntries.Inc(label, "new")
	}
	return result, sct, err
}

func (f *FrontendSigner) queue(ctx context.Context, entry *LogEntry) (SubmitResult, *ct.SignedCertificateTimestamp, error) {
	hash, err := EntryHash(entry)
	if err != nil {
		return New, nil, fmt.Errorf("invalid log entry: %w", err)
	}

	existing, ok, err := f.db.Get(ctx, hash[:])
	if err != nil {
		return New, nil, storageFailure("get", err)
	}
	if ok {
		klog.V(1).Infof("entry %x already logged at %d", hash, existing.SCT.Timestamp)
		sct := existing.SCT
		return Duplicate, &sct, nil
	}

	sct, err := f.signSCT(entry)
	if err != nil {
		return New, nil, err
	}
	record := &LoggedRecord{Hash: hash, Entry: *entry, SCT: *sct}
	inserted, err := f.db.PutIfAbsent(ctx, hash[:], record)
	if err != nil {
		return New, nil, storageFailure("put", err)
	}
	if inserted {
		return New, sct, nil
	}

	// Another writer stored the entry between our Get and PutIfAbsent. Its
	// SCT is the one that counts.
	lostInsertionRaces.Inc()
	existing, ok, err = f.db.Get(ctx, hash[:])
	if err != nil {
		return New, nil, storageFailure("get", err)
	}
	if !ok {
		return New, nil, storageFailure("get", errors.New("record missing after failed insert"))
	}
	stored := existing.SCT
	return Duplicate, &stored, nil
}

func (f *FrontendSigner) signSCT(entry *LogEntry) (*ct.SignedCertificateTimestamp, error) {
	timestamp := clock.UnixMillis(f.ts)
	leaf, err := entry.MerkleTreeLeaf(timestamp)
	if err != nil {
		return nil, fmt.Errorf("building Merkle tree leaf: %w", err)
	}
	sct := &ct.SignedCertificateTimestamp{
		SCTVersion: ct.V1,
		LogID:      ct.LogID{KeyID: f.signer.KeyID()},
		Timestamp:  timestamp,
		Extensions: ct.CTExtensions{},
	}
	input, err := ct.SerializeSCTSignatureInput(*sct, ct.LogEntry{Leaf: *leaf})
	if err != nil {
		return nil, fmt.Errorf("serializing SCT signature input: %w", err)
	}
	sig, err := f.signer.Sign(input)
	if err != nil {
		signingFailures.Inc()
		return nil, fmt.Errorf("signing SCT: %w", err)
	}
	sct.Signature = sig
	return sct, nil
}

func storageFailure(op string, err error) error {
	storageFailures.Inc(op)
	klog.Warningf("record store %s failed: %v", op, err)
	return &StorageError{Op: op, Err: err}
}

// Close releases the signer. QueueEntry fails with ErrClosed afterwards.
// The record store is not closed.
func (f *FrontendSigner) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c, ok := f.signer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
