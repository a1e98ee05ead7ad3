// Copyright 2024 The DSD-Assignment3-DFS-RMI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kerr defines the error kinds shared by the path, rpc, naming and
// storage packages. The RPC transport needs to carry a failure's kind across
// the wire (a target-thrown not-found has to surface as not-found at the
// stub's caller, not as an opaque string), so every error that can cross an
// interface boundary in this module is a *kerr.Error rather than a bare
// errors.New.
package kerr

import (
	"errors"
	"fmt"
)

// Kind identifies why an operation failed. Kinds are compared by value, not
// by message, so callers can branch on them after an RPC round trip.
type Kind int

const (
	// Unknown is never constructed deliberately; KindOf returns it for
	// errors that never passed through this package.
	Unknown Kind = iota

	// NullArgument: a required argument was absent. Raised locally, never
	// transmitted over the wire.
	NullArgument
	// InvalidArgument: malformed path component, bad path string, or
	// similar local validation failure.
	InvalidArgument
	// IllegalState: lifecycle violation (double start, duplicate storage
	// registration, stub built against an unaddressed skeleton).
	IllegalState
	// BadInterface: the supplied interface descriptor isn't a valid
	// remote interface (some method omits the transport error return).
	BadInterface
	// NoSuchMethod: the decoded method name/parameter types didn't
	// resolve against the skeleton's interface descriptor.
	NoSuchMethod
	// NotFound: the path doesn't exist, or is the wrong kind of node for
	// the requested operation.
	NotFound
	// Transport: any I/O, connect, or framing failure on the RPC channel.
	Transport
	// MethodThrew: the target method returned its own declared error;
	// the stub re-raises it at the call site under its original Kind.
	MethodThrew
)

func (k Kind) String() string {
	switch k {
	case NullArgument:
		return "null-argument"
	case InvalidArgument:
		return "invalid-argument"
	case IllegalState:
		return "illegal-state"
	case BadInterface:
		return "bad-interface"
	case NoSuchMethod:
		return "no-such-method"
	case NotFound:
		return "not-found"
	case Transport:
		return "transport-error"
	case MethodThrew:
		return "method-threw"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String, used by the rpc package to
// reconstruct a Kind carried across the wire as text.
func ParseKind(s string) (Kind, bool) {
	for k := NullArgument; k <= MethodThrew; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return Unknown, false
}

// Error is the concrete error type carried through this module. Cause, when
// present, is unwrapped by errors.Unwrap so errors.Is/As keep working against
// the underlying failure (a *net.OpError, an io.EOF, ...).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs a Kind-tagged error with no wrapped cause.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf reports the Kind of err, or Unknown if err never passed through
// this package (e.g. a bare I/O error that hasn't yet been classified).
func KindOf(err error) Kind {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return Unknown
}
