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
	"net"
	"reflect"
	"sync"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
)

// Skeleton is a server endpoint: a TCP listener bound to an interface
// descriptor and a target object implementing that interface. Every
// accepted connection gets its own goroutine, matching the one-thread-per-
// connection model the RPC layer was ported from; stop() waits only for the
// listener goroutine, never for in-flight service goroutines.
type Skeleton struct {
	descriptor *Descriptor
	server     interface{}

	// ListenError is consulted when Accept fails outside of a deliberate
	// Stop; returning true keeps the listener running. The default,
	// when nil, always stops — the same default the source this was
	// ported from uses.
	ListenError func(error) bool
	// ServiceError observes a failure local to one connection; it never
	// affects other connections or the listener.
	ServiceError func(error)
	// Stopped is called once the listener goroutine has exited. cause is
	// nil for a deliberate Stop.
	Stopped func(cause error)

	mu       sync.Mutex
	endpoint Endpoint
	listener net.Listener
	running  bool
	done     chan struct{}
}

// NewSkeleton validates iface as a remote interface (every method returns
// error as its final result) and checks that server implements it. endpoint
// may be the zero value, in which case Start binds a system-assigned port.
func NewSkeleton(iface reflect.Type, server interface{}, endpoint Endpoint) (*Skeleton, error) {
	if server == nil {
		return nil, kerr.New(kerr.NullArgument, "server object is nil")
	}
	descriptor, err := Describe(iface)
	if err != nil {
		return nil, err
	}
	if !descriptor.Implements(reflect.TypeOf(server)) {
		return nil, kerr.New(kerr.BadInterface, "%T does not implement %s", server, descriptor.Name)
	}

	return &Skeleton{
		descriptor: descriptor,
		server:     server,
		endpoint:   endpoint,
	}, nil
}

// Endpoint returns the address the skeleton is (or was last) bound to. Its
// zero value means the skeleton has never been started.
func (s *Skeleton) Endpoint() Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// Start binds the listener, if necessary picking a system-assigned port,
// and spawns the listener goroutine. It returns once that goroutine has
// been spawned; it does not wait for the listener to actually be accepting
// (the bind itself is synchronous, so by the time Start returns the port is
// reserved).
func (s *Skeleton) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return kerr.New(kerr.IllegalState, "skeleton already running")
	}

	lis, err := net.Listen("tcp", s.endpoint.String())
	if err != nil {
		return kerr.Wrap(kerr.Transport, err, "binding skeleton listener")
	}

	addr := lis.Addr().(*net.TCPAddr)
	s.endpoint = Endpoint{Host: s.endpoint.Host, Port: addr.Port}
	s.listener = lis
	s.running = true
	s.done = make(chan struct{})

	go s.listen(lis, s.done)
	return nil
}

// Stop closes the listener, waking the listener goroutine, then waits for
// it to exit. In-flight service goroutines are left to finish on their own.
// Stop on an already-stopped skeleton is a no-op, and the skeleton may be
// started again afterwards.
func (s *Skeleton) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	lis := s.listener
	done := s.done
	s.mu.Unlock()

	lis.Close()
	<-done
}

func (s *Skeleton) listen(lis net.Listener, done chan struct{}) {
	var cause error
	defer func() {
		if s.Stopped != nil {
			s.Stopped(cause)
		}
		close(done)
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			s.mu.Lock()
			stopping := !s.running
			s.mu.Unlock()
			if stopping {
				return
			}
			if s.ListenError == nil || !s.ListenError(err) {
				cause = err
				return
			}
			continue
		}
		go s.service(conn)
	}
}

func (s *Skeleton) service(conn net.Conn) {
	defer conn.Close()

	enc := gob.NewEncoder(conn)
	dec := gob.NewDecoder(conn)

	var req request
	if err := dec.Decode(&req); err != nil {
		s.reportServiceError(kerr.Wrap(kerr.Transport, err, "decoding request"))
		enc.Encode(remoteErrorResponse(kerr.Transport, err.Error()))
		return
	}

	method, err := s.descriptor.Resolve(req.Method, req.ParamTypes)
	if err != nil {
		enc.Encode(remoteErrorResponse(kerr.KindOf(err), err.Error()))
		return
	}

	args := make([]reflect.Value, len(method.ParamTypes))
	for i, t := range method.ParamTypes {
		if i >= len(req.Args) || req.Args[i] == nil {
			args[i] = reflect.Zero(t)
			continue
		}
		v := reflect.ValueOf(req.Args[i])
		if !v.Type().AssignableTo(t) && v.Type().ConvertibleTo(t) {
			v = v.Convert(t)
		}
		args[i] = v
	}

	results := reflect.ValueOf(s.server).MethodByName(method.Name).Call(args)

	errVal := results[len(results)-1]
	if !errVal.IsNil() {
		methodErr := errVal.Interface().(error)
		s.reportServiceError(methodErr)
		enc.Encode(remoteErrorResponse(kindForMethodError(methodErr), methodErr.Error()))
		return
	}

	var value interface{}
	if len(results) == 2 {
		value = results[0].Interface()
	}
	if err := enc.Encode(response{Status: statusOK, Value: value}); err != nil {
		s.reportServiceError(kerr.Wrap(kerr.Transport, err, "encoding response"))
	}
}

func kindForMethodError(err error) kerr.Kind {
	if k := kerr.KindOf(err); k != kerr.Unknown {
		return k
	}
	return kerr.MethodThrew
}

func (s *Skeleton) reportServiceError(err error) {
	if s.ServiceError != nil {
		s.ServiceError(err)
	}
}
