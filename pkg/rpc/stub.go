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
	"bytes"
	"encoding/gob"
	"fmt"
	"net"
	"reflect"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
)

// Stub is the client-side proxy: stateless apart from (descriptor,
// endpoint), serializable, equal to any other stub naming the same
// interface and address. It's embedded by the generated-looking per-
// interface wrapper types in the naming and storage packages, which is
// this module's answer to Go having no runtime dynamic-proxy mechanism (see
// the package doc in descriptor.go) — one concrete stub struct per
// interface, each method a one-line call into Invoke.
type Stub struct {
	descriptor *Descriptor
	endpoint   Endpoint
}

// NewStub builds a Stub over iface at endpoint. It fails with
// kerr.BadInterface if iface isn't a valid remote interface and with
// kerr.NullArgument if endpoint is the zero value.
func NewStub(iface reflect.Type, endpoint Endpoint) (Stub, error) {
	if endpoint.IsZero() {
		return Stub{}, kerr.New(kerr.NullArgument, "endpoint is unset")
	}
	descriptor, err := Describe(iface)
	if err != nil {
		return Stub{}, err
	}
	return Stub{descriptor: descriptor, endpoint: endpoint}, nil
}

// NewStubFromSkeleton takes the skeleton's bound endpoint. It fails with
// kerr.IllegalState if the skeleton hasn't been started (and so has no
// address yet).
func NewStubFromSkeleton(iface reflect.Type, skeleton *Skeleton) (Stub, error) {
	endpoint := skeleton.Endpoint()
	if endpoint.IsZero() {
		return Stub{}, kerr.New(kerr.IllegalState, "skeleton has not been assigned an address")
	}
	return NewStub(iface, endpoint)
}

// NewStubFromSkeletonHost is NewStubFromSkeleton but rebinds the skeleton's
// port onto an externally supplied host, for skeletons bound to a wildcard
// address that isn't directly dialable from other hosts.
func NewStubFromSkeletonHost(iface reflect.Type, skeleton *Skeleton, host string) (Stub, error) {
	endpoint := skeleton.Endpoint()
	if endpoint.IsZero() {
		return Stub{}, kerr.New(kerr.IllegalState, "skeleton has not been assigned an address")
	}
	return NewStub(iface, Endpoint{Host: host, Port: endpoint.Port})
}

// Endpoint returns the address this stub dials.
func (s Stub) Endpoint() Endpoint { return s.endpoint }

// Equal reports whether two stubs reference the same interface and the same
// endpoint — the only two local (non-remote) comparisons this package
// makes on a stub's behalf.
func (s Stub) Equal(other Stub) bool {
	if s.descriptor == nil || other.descriptor == nil {
		return s.descriptor == other.descriptor && s.endpoint.Equal(other.endpoint)
	}
	return s.descriptor.Name == other.descriptor.Name && s.endpoint.Equal(other.endpoint)
}

// String renders the stub without making a remote call.
func (s Stub) String() string {
	return fmt.Sprintf("Remote Interface: %s\nRemote Address: %s\n", s.descriptor.Name, s.endpoint)
}

// Invoke performs exactly one remote call: dial, write the request, read
// the response, close. On kerr.MethodThrew or any other remote-error kind
// it returns an error of that Kind; on a local I/O failure it returns
// kerr.Transport. reply, if non-nil, must be a pointer to the method's
// declared return type; it is left untouched for void methods.
func (s Stub) Invoke(method string, args []interface{}, reply interface{}) error {
	m, ok := s.descriptor.Methods[method]
	if !ok {
		return kerr.New(kerr.NoSuchMethod, "no method %q on %s", method, s.descriptor.Name)
	}

	conn, dialErr := net.Dial("tcp", s.endpoint.String())
	if dialErr != nil {
		return kerr.Wrap(kerr.Transport, dialErr, "dialing %s", s.endpoint)
	}
	defer conn.Close()

	enc := gob.NewEncoder(conn)
	if err := enc.Encode(request{Method: method, ParamTypes: ParamTypeNames(m), Args: args}); err != nil {
		return kerr.Wrap(kerr.Transport, err, "writing request")
	}

	var resp response
	if err := gob.NewDecoder(conn).Decode(&resp); err != nil {
		return kerr.Wrap(kerr.Transport, err, "reading response")
	}

	if resp.Status != statusOK {
		return resp.toError()
	}
	if reply != nil && resp.Value != nil {
		assignReply(reply, resp.Value)
	}
	return nil
}

// stubWireForm is what actually crosses the wire for a Stub value: the
// interface name (resolved back to a cached Descriptor on decode, see
// descriptor.go) and the endpoint. This is what makes stubs serializable —
// a storage handle can be passed as an argument to another remote call,
// e.g. the Storage stub forwarded to Command.Copy.
type stubWireForm struct {
	InterfaceName string
	Endpoint      Endpoint
}

func (s Stub) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	name := ""
	if s.descriptor != nil {
		name = s.descriptor.Name
	}
	if err := gob.NewEncoder(&buf).Encode(stubWireForm{InterfaceName: name, Endpoint: s.endpoint}); err != nil {
		return nil, fmt.Errorf("encoding stub wire form: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Stub) GobDecode(data []byte) error {
	var w stubWireForm
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return fmt.Errorf("decoding stub wire form: %w", err)
	}
	descriptor, ok := lookupDescriptor(w.InterfaceName)
	if !ok {
		return fmt.Errorf("decoding stub wire form: unknown interface %q", w.InterfaceName)
	}
	s.descriptor = descriptor
	s.endpoint = w.Endpoint
	return nil
}

// assignReply copies value into the pointer reply points at.
func assignReply(reply interface{}, value interface{}) {
	rv := reflect.ValueOf(reply)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(rv.Elem().Type()) {
		rv.Elem().Set(vv)
	} else if vv.Type().ConvertibleTo(rv.Elem().Type()) {
		rv.Elem().Set(vv.Convert(rv.Elem().Type()))
	}
}
