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
	"errors"
	"fmt"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"golang.org/x/crypto/cryptobyte"
)

const recordFormatV1 = 1

// RecordCodec serializes LoggedRecords for byte-oriented storage backends.
//
// The encoding is
//
//	uint8  format (1)
//	opaque hash[32]
//	uint16 entry_type
//	x509:    opaque leaf<0..2^24-1>; ASN1Cert chain<0..2^24-1>
//	precert: opaque precert<0..2^24-1>; opaque issuer_key_hash[32];
//	         opaque tbs<0..2^24-1>; ASN1Cert chain<0..2^24-1>
//	opaque sct<0..2^16-1>
//
// where sct is the RFC 6962 TLS encoding of the SCT.
type RecordCodec struct{}

// Marshal encodes r.
func (RecordCodec) Marshal(r *LoggedRecord) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil record")
	}
	if err := r.Entry.Validate(); err != nil {
		return nil, err
	}
	sct, err := tls.Marshal(r.SCT)
	if err != nil {
		return nil, fmt.Errorf("marshaling SCT: %v", err)
	}

	var b cryptobyte.Builder
	b.AddUint8(recordFormatV1)
	b.AddBytes(r.Hash[:])
	b.AddUint16(uint16(r.Entry.Type))
	switch r.Entry.Type {
	case ct.X509LogEntryType:
		addUint24Bytes(&b, r.Entry.X509.LeafCertificate)
		addCertList(&b, r.Entry.X509.CertificateChain)
	case ct.PrecertLogEntryType:
		p := r.Entry.Precert
		addUint24Bytes(&b, p.PreCertificate)
		b.AddBytes(p.PreCert.IssuerKeyHash[:])
		addUint24Bytes(&b, p.PreCert.TBSCertificate)
		addCertList(&b, p.PrecertificateChain)
	}
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(sct)
	})
	return b.Bytes()
}

func addCertList(b *cryptobyte.Builder, certs [][]byte) {
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, c := range certs {
			addUint24Bytes(b, c)
		}
	})
}

// Unmarshal decodes a record produced by Marshal.
func (RecordCodec) Unmarshal(data []byte) (*LoggedRecord, error) {
	s := cryptobyte.String(data)
	var format uint8
	if !s.ReadUint8(&format) {
		return nil, errors.New("truncated record")
	}
	if format != recordFormatV1 {
		return nil, fmt.Errorf("unknown record format %d", format)
	}

	r := &LoggedRecord{}
	var entryType uint16
	if !s.CopyBytes(r.Hash[:]) || !s.ReadUint16(&entryType) {
		return nil, errors.New("truncated record header")
	}
	r.Entry.Type = ct.LogEntryType(entryType)

	var ok bool
	switch r.Entry.Type {
	case ct.X509LogEntryType:
		e := &X509Entry{}
		e.LeafCertificate, ok = readUint24Bytes(&s)
		if ok {
			e.CertificateChain, ok = readCertList(&s)
		}
		r.Entry.X509 = e
	case ct.PrecertLogEntryType:
		e := &PreCertEntry{}
		e.PreCertificate, ok = readUint24Bytes(&s)
		ok = ok && s.CopyBytes(e.PreCert.IssuerKeyHash[:])
		if ok {
			e.PreCert.TBSCertificate, ok = readUint24Bytes(&s)
		}
		if ok {
			e.PrecertificateChain, ok = readCertList(&s)
		}
		r.Entry.Precert = e
	default:
		return nil, fmt.Errorf("unknown entry type %d", entryType)
	}
	if !ok {
		return nil, errors.New("truncated entry")
	}

	var sct cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&sct) {
		return nil, errors.New("truncated SCT")
	}
	if !s.Empty() {
		return nil, fmt.Errorf("%d trailing bytes after record", len(s))
	}
	rest, err := tls.Unmarshal(sct, &r.SCT)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling SCT: %v", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%d trailing bytes after SCT", len(rest))
	}
	return r, nil
}

func readUint24Bytes(s *cryptobyte.String) ([]byte, bool) {
	var v cryptobyte.String
	if !s.ReadUint24LengthPrefixed(&v) {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func readCertList(s *cryptobyte.String) ([][]byte, bool) {
	var list cryptobyte.String
	if !s.ReadUint24LengthPrefixed(&list) {
		return nil, false
	}
	var certs [][]byte
	for !list.Empty() {
		c, ok := readUint24Bytes(&list)
		if !ok {
			return nil, false
		}
		certs = append(certs, c)
	}
	return certs, true
}
