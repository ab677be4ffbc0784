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
	"testing"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/tls"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func testRecord(e *LogEntry) *LoggedRecord {
	r := &LoggedRecord{
		Entry: *e,
		SCT: ct.SignedCertificateTimestamp{
			SCTVersion: ct.V1,
			LogID:      ct.LogID{KeyID: [32]byte{0xaa}},
			Timestamp:  1700000000000,
			Extensions: ct.CTExtensions{},
			Signature: ct.DigitallySigned{
				Algorithm: tls.SignatureAndHashAlgorithm{Hash: tls.SHA256, Signature: tls.ECDSA},
				Signature: []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x02},
			},
		},
	}
	r.Hash[0] = 0x42
	return r
}

func TestRecordCodecRoundTrip(t *testing.T) {
	for _, test := range []struct {
		desc  string
		entry *LogEntry
	}{
		{desc: "x509", entry: x509Entry([]byte("leaf"), []byte("int"), []byte("ca"))},
		{desc: "x509 no chain", entry: x509Entry([]byte("leaf"))},
		{desc: "precert", entry: precertEntry(7, []byte("tbs"), []byte("preca"), []byte("ca"))},
	} {
		t.Run(test.desc, func(t *testing.T) {
			want := testRecord(test.entry)
			data, err := RecordCodec{}.Marshal(want)
			if err != nil {
				t.Fatalf("Marshal(): %v", err)
			}
			got, err := RecordCodec{}.Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal(): %v", err)
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordCodecRejects(t *testing.T) {
	good, err := RecordCodec{}.Marshal(testRecord(x509Entry([]byte("leaf"), []byte("ca"))))
	if err != nil {
		t.Fatalf("Marshal(): %v", err)
	}
	for _, test := range []struct {
		desc string
		data []byte
	}{
		{desc: "empty", data: nil},
		{desc: "bad format", data: append([]byte{2}, good[1:]...)},
		{desc: "header only", data: good[:20]},
		{desc: "truncated entry", data: good[:40]},
		{desc: "truncated sct", data: good[:len(good)-1]},
		{desc: "trailing", data: append(append([]byte(nil), good...), 0)},
		{desc: "unknown type", data: func() []byte {
			d := append([]byte(nil), good...)
			d[34] = 5
			return d
		}()},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if r, err := (RecordCodec{}).Unmarshal(test.data); err == nil {
				t.Errorf("Unmarshal()=%+v, want error", r)
			}
		})
	}

	if _, err := (RecordCodec{}).Marshal(nil); err == nil {
		t.Error("Marshal(nil)=nil, want error")
	}
	if _, err := (RecordCodec{}).Marshal(testRecord(x509Entry(nil))); err == nil {
		t.Error("Marshal(invalid entry)=nil, want error")
	}
}
