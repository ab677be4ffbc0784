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
	"testing"
)

func TestStatusString(t *testing.T) {
	for _, test := range []struct {
		s    Status
		want string
	}{
		{OK, "OK"},
		{EmptySubmission, "EMPTY_SUBMISSION"},
		{InvalidPEMEncodedChain, "INVALID_PEM_ENCODED_CHAIN"},
		{InvalidCertificateChain, "INVALID_CERTIFICATE_CHAIN"},
		{UnknownRoot, "UNKNOWN_ROOT"},
		{EntryTypeMismatch, "ENTRY_TYPE_MISMATCH"},
		{Status(99), "Status(99)"},
	} {
		if got := test.s.String(); got != test.want {
			t.Errorf("Status(%d).String()=%q, want %q", int(test.s), got, test.want)
		}
	}
}

func TestStatusOf(t *testing.T) {
	for _, test := range []struct {
		desc   string
		err    error
		want   Status
		wantOK bool
	}{
		{desc: "nil", err: nil, want: OK, wantOK: true},
		{desc: "submit error", err: submitErrorf(UnknownRoot, "no root"), want: UnknownRoot, wantOK: true},
		{desc: "wrapped", err: fmt.Errorf("ctx: %w", submitErrorf(EmptySubmission, "empty")), want: EmptySubmission, wantOK: true},
		{desc: "storage", err: &StorageError{Op: "get", Err: errors.New("down")}, want: OK, wantOK: false},
		{desc: "plain", err: errors.New("plain"), want: OK, wantOK: false},
	} {
		t.Run(test.desc, func(t *testing.T) {
			got, ok := StatusOf(test.err)
			if got != test.want || ok != test.wantOK {
				t.Errorf("StatusOf(%v)=%v, %v, want %v, %v", test.err, got, ok, test.want, test.wantOK)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	inner := errors.New("inner")
	if err := (&SubmitError{Status: UnknownRoot, Err: inner}); !errors.Is(err, inner) {
		t.Errorf("SubmitError does not unwrap to its cause")
	}
	if err := (&StorageError{Op: "put", Err: inner}); !errors.Is(err, inner) {
		t.Errorf("StorageError does not unwrap to its cause")
	}
	if got, want := (&SubmitError{Status: EmptySubmission}).Error(), "EMPTY_SUBMISSION"; got != want {
		t.Errorf("Error()=%q, want %q", got, want)
	}
	if got, want := (&StorageError{Op: "put", Err: inner}).Error(), "storage put failed: inner"; got != want {
		t.Errorf("Error()=%q, want %q", got, want)
	}
}
