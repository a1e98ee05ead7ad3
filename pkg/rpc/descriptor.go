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

// Package rpc is the type-safe remote-method-invocation transport: a
// multi-threaded server endpoint (Skeleton) paired with a client-side proxy
// (Stub), both built from an interface descriptor rather than from
// per-method generated code.
//
// Go has no runtime equivalent of java.lang.reflect.Proxy, so the dynamic
// dispatch this package needs on both ends is done with reflect.Value.Call
// directly against the interface's method set — the same trick the standard
// library's net/rpc uses to avoid a hand-written switch per remote method.
package rpc

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Method is one operation of a remote interface: a name, its ordered
// parameter types, and its non-error return type (or nil for void).
type Method struct {
	Name       string
	ParamTypes []reflect.Type
	ReturnType reflect.Type // nil if the method is (error) only
}

// Descriptor is a first-class runtime value describing a remote interface:
// name to (parameter types, return type). Method resolution against it is a
// map lookup, never a type switch.
type Descriptor struct {
	Name    string
	iface   reflect.Type
	Methods map[string]Method
}

// Describe builds a Descriptor from a Go interface type. It fails with
// kerr.BadInterface unless every method of the interface declares that it
// may fail with a transport-level error — in this port, that's the Go
// idiom of returning error as the final result.
func Describe(iface reflect.Type) (*Descriptor, error) {
	if iface == nil {
		return nil, kerr.New(kerr.NullArgument, "interface type is nil")
	}
	if iface.Kind() != reflect.Interface {
		return nil, kerr.New(kerr.BadInterface, "%v is not an interface", iface)
	}

	methods := make(map[string]Method, iface.NumMethod())
	for i := 0; i < iface.NumMethod(); i++ {
		m := iface.Method(i)
		numOut := m.Type.NumOut()
		if numOut == 0 || m.Type.Out(numOut-1) != errorType {
			return nil, kerr.New(kerr.BadInterface,
				"method %s.%s does not declare a transport-level error return", iface, m.Name)
		}

		params := make([]reflect.Type, m.Type.NumIn())
		for j := range params {
			params[j] = m.Type.In(j)
		}

		var ret reflect.Type
		if numOut == 2 {
			ret = m.Type.Out(0)
		}

		methods[m.Name] = Method{Name: m.Name, ParamTypes: params, ReturnType: ret}
	}

	d := &Descriptor{Name: iface.String(), iface: iface, Methods: methods}
	cacheMu.Lock()
	cache[d.Name] = d
	cacheMu.Unlock()
	return d, nil
}

// descriptor cache: a Stub's wire form carries only its interface's name,
// not the reflect.Type (which doesn't survive gob on its own), so decoding
// a stub received as an RPC argument — a storage handle passed to
// Command.Copy, for instance — looks the Descriptor back up here. The
// entry exists once any code in this process has called Describe or built
// a Stub/Skeleton for that interface, which every concrete stub wrapper
// does at construction.
var (
	cacheMu sync.Mutex
	cache   = map[string]*Descriptor{}
)

func lookupDescriptor(name string) (*Descriptor, bool) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	d, ok := cache[name]
	return d, ok
}

// Implements reports whether concrete type t implements d's interface.
func (d *Descriptor) Implements(t reflect.Type) bool {
	return t.Implements(d.iface)
}

// Resolve looks up a method by name and parameter-type names, mirroring the
// wire contract where a request carries both. A mismatch on either axis is
// kerr.NoSuchMethod.
func (d *Descriptor) Resolve(name string, paramTypeNames []string) (Method, error) {
	m, ok := d.Methods[name]
	if !ok {
		return Method{}, kerr.New(kerr.NoSuchMethod, "no method %q on %s", name, d.Name)
	}
	if len(paramTypeNames) != len(m.ParamTypes) {
		return Method{}, kerr.New(kerr.NoSuchMethod,
			"method %q on %s takes %d parameters, request carried %d", name, d.Name, len(m.ParamTypes), len(paramTypeNames))
	}
	for i, pt := range m.ParamTypes {
		if want := typeName(pt); want != paramTypeNames[i] {
			return Method{}, kerr.New(kerr.NoSuchMethod,
				"method %q on %s parameter %d is %s, request carried %s", name, d.Name, i, want, paramTypeNames[i])
		}
	}
	return m, nil
}

// ParamTypeNames renders m's parameter types the way they're carried on the
// wire, for use by both the stub (writing a request) and the skeleton
// (resolving one).
func ParamTypeNames(m Method) []string {
	names := make([]string, len(m.ParamTypes))
	for i, t := range m.ParamTypes {
		names[i] = typeName(t)
	}
	return names
}

func typeName(t reflect.Type) string {
	return fmt.Sprintf("%s/%s", t.PkgPath(), t.Name())
}
