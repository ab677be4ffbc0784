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
	"crypto/sha256"
	"errors"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
	"github.com/transparency-dev/merkle/rfc6962"
	"golang.org/x/crypto/cryptobyte"
)

// X509Entry is a log entry for an ordinary certificate.
type X509Entry struct {
	// LeafCertificate is the DER of the submitted leaf.
	LeafCertificate []byte
	// CertificateChain holds the DER of the intermediates and trust anchor.
	CertificateChain [][]byte
}

// PreCertEntry is a log entry for a pre-certificate.
type PreCertEntry struct {
	// PreCertificate is the DER of the submitted pre-certificate, poison
	// included.
	PreCertificate []byte
	// PreCert holds the issuer key hash and the TBSCertificate that the SCT
	// signs over.
	PreCert ct.PreCert
	// PrecertificateChain holds the DER of the Precertificate Signing
	// Certificate, if any, followed by the rest of the chain to the trust
	// anchor.
	PrecertificateChain [][]byte
}

// LogEntry is a normalized submission. Exactly one of X509 and Precert is
// set, matching Type.
type LogEntry struct {
	Type    ct.LogEntryType
	X509    *X509Entry
	Precert *PreCertEntry
}

// Validate checks the structural invariants of e.
func (e *LogEntry) Validate() error {
	if e == nil {
		return errors.New("nil log entry")
	}
	switch e.Type {
	case ct.X509LogEntryType:
		if e.X509 == nil || e.Precert != nil {
			return errors.New("x509 entry must carry only an X509 payload")
		}
		if len(e.X509.LeafCertificate) == 0 {
			return errors.New("x509 entry has no leaf certificate")
		}
	case ct.PrecertLogEntryType:
		if e.Precert == nil || e.X509 != nil {
			return errors.New("precert entry must carry only a Precert payload")
		}
		if len(e.Precert.PreCert.TBSCertificate) == 0 {
			return errors.New("precert entry has no TBSCertificate")
		}
	default:
		return fmt.Errorf("unknown entry type %v", e.Type)
	}
	return nil
}

// Chain returns the DER certificates that follow the leaf.
func (e *LogEntry) Chain() [][]byte {
	if e.Precert != nil {
		return e.Precert.PrecertificateChain
	}
	if e.X509 != nil {
		return e.X509.CertificateChain
	}
	return nil
}

// MerkleTreeLeaf builds the RFC 6962 leaf for e at the given timestamp, in
// milliseconds.
func (e *LogEntry) MerkleTreeLeaf(timestamp uint64) (*ct.MerkleTreeLeaf, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	entry := &ct.TimestampedEntry{
		Timestamp: timestamp,
		EntryType: e.Type,
	}
	if e.Type == ct.X509LogEntryType {
		entry.X509Entry = &ct.ASN1Cert{Data: e.X509.LeafCertificate}
	} else {
		precert := e.Precert.PreCert
		entry.PrecertEntry = &precert
	}
	return &ct.MerkleTreeLeaf{
		Version:          ct.V1,
		LeafType:         ct.TimestampedEntryLeafType,
		TimestampedEntry: entry,
	}, nil
}

// EntryHash returns the deduplication key of e. It covers the entry type
// and the leaf-derived fields only, so the same leaf submitted through
// different chains hashes identically.
//
// The hashed encoding is
//
//	uint16 entry_type
//	x509:    opaque leaf<1..2^24-1>
//	precert: opaque issuer_key_hash[32]; opaque tbs<1..2^24-1>
//
// hashed as an RFC 6962 leaf.
func EntryHash(e *LogEntry) ([sha256.Size]byte, error) {
	var hash [sha256.Size]byte
	if err := e.Validate(); err != nil {
		return hash, err
	}
	var b cryptobyte.Builder
	b.AddUint16(uint16(e.Type))
	switch e.Type {
	case ct.X509LogEntryType:
		addUint24Bytes(&b, e.X509.LeafCertificate)
	case ct.PrecertLogEntryType:
		b.AddBytes(e.Precert.PreCert.IssuerKeyHash[:])
		addUint24Bytes(&b, e.Precert.PreCert.TBSCertificate)
	}
	enc, err := b.Bytes()
	if err != nil {
		return hash, fmt.Errorf("encoding entry: %v", err)
	}
	copy(hash[:], rfc6962.DefaultHasher.HashLeaf(enc))
	return hash, nil
}

func addUint24Bytes(b *cryptobyte.Builder, data []byte) {
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(data)
	})
}

// LoggedRecord is what the record store holds for a logged entry. It is
// written once and never changed.
type LoggedRecord struct {
	Hash  [sha256.Size]byte
	Entry LogEntry
	SCT   ct.SignedCertificateTimestamp
}
