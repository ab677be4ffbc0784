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
)

// Status classifies the outcome of processing a submission.
type Status int

// Submission statuses. Every value other than OK is a rejection.
const (
	OK Status = iota
	EmptySubmission
	InvalidPEMEncodedChain
	InvalidCertificateChain
	UnknownRoot
	EntryTypeMismatch
)

var statusNames = map[Status]string{
	OK:                      "OK",
	EmptySubmission:         "EMPTY_SUBMISSION",
	InvalidPEMEncodedChain:  "INVALID_PEM_ENCODED_CHAIN",
	InvalidCertificateChain: "INVALID_CERTIFICATE_CHAIN",
	UnknownRoot:             "UNKNOWN_ROOT",
	EntryTypeMismatch:       "ENTRY_TYPE_MISMATCH",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// SubmitError is a rejection of a submitted chain.
type SubmitError struct {
	Status Status
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Err == nil {
		return e.Status.String()
	}
	return fmt.Sprintf("%v: %v", e.Status, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

func submitErrorf(status Status, format string, args ...interface{}) error {
	return &SubmitError{Status: status, Err: fmt.Errorf(format, args...)}
}

// StatusOf returns the Status carried by err. A nil error is OK. Errors that
// are not rejections, such as storage failures, report ok=false.
func StatusOf(err error) (status Status, ok bool) {
	if err == nil {
		return OK, true
	}
	var se *SubmitError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return OK, false
}

// StorageError reports a failure of the record store. Storage failures are
// never retried by the frontend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

var (
	errIssuerMismatch  = errors.New("issuer name does not match subject of next certificate")
	errMalformedPoison = errors.New("CT poison extension is not critical or not ASN.1 NULL")
)

// ErrClosed is returned by a FrontendSigner after Close.
var ErrClosed = errors.New("ctfe: frontend signer is closed")
