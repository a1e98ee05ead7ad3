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

package rpc

import (
	"encoding/gob"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
)

// request is the client-to-server half of a single call, written in one
// gob.Encode: method name, ordered parameter-type descriptors, then the
// arguments matching them in count and type. gob's own stream is already
// self-describing, which satisfies the wire framing requirement without a
// hand-rolled length-prefixed format.
type request struct {
	Method     string
	ParamTypes []string
	Args       []interface{}
}

// status is the server-to-client tag preceding the payload.
type status string

const (
	statusOK          status = "OK"
	statusRemoteError status = "RemoteError"
)

// errKind mirrors kerr.Kind across the wire without forcing the far side to
// link against whatever concrete type produced it.
type errKind string

// response is the server-to-client half of a call.
type response struct {
	Status status

	// Value is set when Status == statusOK; it holds the method's return
	// value, or is left as nil for a void method.
	Value interface{}

	// ErrKind/ErrMessage are set when Status == statusRemoteError.
	// ErrKind is a kerr.Kind string: "transport-error" when decoding the
	// request failed, "no-such-method" when it did not resolve, the
	// original Kind of the error the target method returned, or
	// "method-threw" when that error carried no Kind.
	ErrKind    errKind
	ErrMessage string
}

// Register makes a concrete argument/return type usable as an RPC payload.
// Every type that appears as a parameter or a non-error return value of a
// remote interface method must be registered exactly once, process-wide,
// before any Stub or Skeleton using that interface is exercised — gob needs
// to know the concrete type behind the `interface{}` slots in request.Args
// and response.Value.
func Register(value interface{}) {
	gob.Register(value)
}

func remoteErrorResponse(kind kerr.Kind, message string) response {
	return response{Status: statusRemoteError, ErrKind: errKind(kind.String()), ErrMessage: message}
}

// toError reconstructs a kerr.Error from a remote-error response, for the
// stub to raise at the call site.
func (r response) toError() error {
	if k, ok := kerr.ParseKind(string(r.ErrKind)); ok {
		return kerr.New(k, "%s", r.ErrMessage)
	}
	return kerr.New(kerr.Transport, "%s", r.ErrMessage)
}

func init() {
	Register("")
	Register(0)
	Register(int64(0))
	Register(false)
	Register([]byte(nil))
	Register([]string(nil))
	Register(Endpoint{})
}
