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
	"net"
	"strconv"
)

// Endpoint is a TCP network address a Stub dials and a Skeleton binds to.
// It's a plain value (not net.Addr) so it can cross the wire unmodified as
// a registration argument (a storage server announces its own Storage and
// Command endpoints to the naming server this way).
type Endpoint struct {
	Host string
	Port int
}

// String renders the endpoint as host:port, suitable for net.Dial/Listen.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// IsZero reports whether e has never been assigned a concrete address.
func (e Endpoint) IsZero() bool {
	return e == Endpoint{}
}

// Equal does endpoint comparison by value.
func (e Endpoint) Equal(other Endpoint) bool {
	return e == other
}

