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

// Package storage defines the two capability interfaces a storage server
// offers the naming server — Command (filesystem mutation) and Storage
// (byte I/O) — together with their stub and skeleton wrappers and the
// Handle pair the naming server keeps per storage server. The
// implementation behind these interfaces lives in cmd/storage-server.
package storage

import (
	"reflect"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
)

// Command is the filesystem-mutation capability a storage server exposes
// to the naming server.
type Command interface {
	Create(p path.Path) (bool, error)
	Delete(p path.Path) (bool, error)
	Copy(p path.Path, source Storage) (bool, error)
}

// Storage is the byte-I/O capability a storage server exposes to the
// naming server (and, transitively, to clients the naming server hands a
// Storage handle to).
type Storage interface {
	Size(p path.Path) (int64, error)
	Read(p path.Path, offset, length int64) ([]byte, error)
	Write(p path.Path, offset int64, data []byte) (bool, error)
}

var (
	commandType = reflect.TypeOf((*Command)(nil)).Elem()
	storageType = reflect.TypeOf((*Storage)(nil)).Elem()
)

func init() {
	rpc.Register(path.Root)
	rpc.Register(CommandStub{})
	rpc.Register(StorageStub{})
}

// CommandStub is the client-side proxy a naming server holds for a
// storage server's Command capability.
type CommandStub struct {
	rpc.Stub
}

// NewCommandStub builds a Command stub at endpoint.
func NewCommandStub(endpoint rpc.Endpoint) (CommandStub, error) {
	s, err := rpc.NewStub(commandType, endpoint)
	if err != nil {
		return CommandStub{}, err
	}
	return CommandStub{Stub: s}, nil
}

func (c CommandStub) Create(p path.Path) (bool, error) {
	var reply bool
	err := c.Invoke("Create", []interface{}{p}, &reply)
	return reply, err
}

func (c CommandStub) Delete(p path.Path) (bool, error) {
	var reply bool
	err := c.Invoke("Delete", []interface{}{p}, &reply)
	return reply, err
}

func (c CommandStub) Copy(p path.Path, source Storage) (bool, error) {
	var reply bool
	err := c.Invoke("Copy", []interface{}{p, source}, &reply)
	return reply, err
}

var _ Command = CommandStub{}

// StorageStub is the client-side proxy for a storage server's Storage
// capability.
type StorageStub struct {
	rpc.Stub
}

// NewStorageStub builds a Storage stub at endpoint.
func NewStorageStub(endpoint rpc.Endpoint) (StorageStub, error) {
	s, err := rpc.NewStub(storageType, endpoint)
	if err != nil {
		return StorageStub{}, err
	}
	return StorageStub{Stub: s}, nil
}

func (s StorageStub) Size(p path.Path) (int64, error) {
	var reply int64
	err := s.Invoke("Size", []interface{}{p}, &reply)
	return reply, err
}

func (s StorageStub) Read(p path.Path, offset, length int64) ([]byte, error) {
	var reply []byte
	err := s.Invoke("Read", []interface{}{p, offset, length}, &reply)
	return reply, err
}

func (s StorageStub) Write(p path.Path, offset int64, data []byte) (bool, error) {
	var reply bool
	err := s.Invoke("Write", []interface{}{p, offset, data}, &reply)
	return reply, err
}

var _ Storage = StorageStub{}

// NewCommandStubFromSkeletonHost builds a Command stub over skeleton's
// bound port, rebound onto host — for a skeleton listening on a wildcard
// address that a remote naming server cannot dial directly.
func NewCommandStubFromSkeletonHost(skeleton *rpc.Skeleton, host string) (CommandStub, error) {
	s, err := rpc.NewStubFromSkeletonHost(commandType, skeleton, host)
	if err != nil {
		return CommandStub{}, err
	}
	return CommandStub{Stub: s}, nil
}

// NewStorageStubFromSkeletonHost is NewCommandStubFromSkeletonHost for the
// Storage capability.
func NewStorageStubFromSkeletonHost(skeleton *rpc.Skeleton, host string) (StorageStub, error) {
	s, err := rpc.NewStubFromSkeletonHost(storageType, skeleton, host)
	if err != nil {
		return StorageStub{}, err
	}
	return StorageStub{Stub: s}, nil
}

// NewCommandSkeleton binds server (an implementation of Command) behind a
// Skeleton at endpoint.
func NewCommandSkeleton(server Command, endpoint rpc.Endpoint) (*rpc.Skeleton, error) {
	return rpc.NewSkeleton(commandType, server, endpoint)
}

// NewStorageSkeleton binds server (an implementation of Storage) behind a
// Skeleton at endpoint.
func NewStorageSkeleton(server Storage, endpoint rpc.Endpoint) (*rpc.Skeleton, error) {
	return rpc.NewSkeleton(storageType, server, endpoint)
}

// Handle is the opaque (Storage, Command) pair the naming server keeps per
// registered storage server. Equality uses both endpoints, matching the
// registration-deduplication rule in the naming package.
type Handle struct {
	Storage StorageStub
	Command CommandStub
}

// Equal reports whether two handles reference the same pair of endpoints.
func (h Handle) Equal(other Handle) bool {
	return h.Storage.Equal(other.Storage.Stub) && h.Command.Equal(other.Command.Stub)
}
