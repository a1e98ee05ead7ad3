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

// Package naming implements the in-memory namespace directory and the two
// RPC-facing interfaces the naming server composes over it: Service, for
// clients, and Registration, for storage servers.
package naming

import (
	"reflect"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

// Service is the naming server's client-facing interface.
type Service interface {
	IsDirectory(p path.Path) (bool, error)
	List(directory path.Path) ([]string, error)
	CreateFile(file path.Path) (bool, error)
	CreateDirectory(directory path.Path) (bool, error)
	Delete(p path.Path) (bool, error)
	GetStorage(file path.Path) (storage.Storage, error)
}

// Registration is the naming server's storage-server-facing interface.
type Registration interface {
	// Register announces a storage server's capabilities and the files it
	// already hosts. The returned paths are ones the tree rejected — the
	// caller is expected to delete them locally, since the naming server
	// considers some other replica authoritative for them.
	Register(store storage.Storage, command storage.Command, files []path.Path) ([]path.Path, error)
}

var (
	serviceType      = reflect.TypeOf((*Service)(nil)).Elem()
	registrationType = reflect.TypeOf((*Registration)(nil)).Elem()
)

func init() {
	rpc.Register([]string(nil))
	rpc.Register([]path.Path(nil))
}

// ServiceStub is the client-side proxy over the Service interface.
type ServiceStub struct {
	rpc.Stub
}

// NewServiceStub builds a Service stub at endpoint.
func NewServiceStub(endpoint rpc.Endpoint) (ServiceStub, error) {
	s, err := rpc.NewStub(serviceType, endpoint)
	if err != nil {
		return ServiceStub{}, err
	}
	return ServiceStub{Stub: s}, nil
}

func (s ServiceStub) IsDirectory(p path.Path) (bool, error) {
	var reply bool
	err := s.Invoke("IsDirectory", []interface{}{p}, &reply)
	return reply, err
}

func (s ServiceStub) List(directory path.Path) ([]string, error) {
	var reply []string
	err := s.Invoke("List", []interface{}{directory}, &reply)
	return reply, err
}

func (s ServiceStub) CreateFile(file path.Path) (bool, error) {
	var reply bool
	err := s.Invoke("CreateFile", []interface{}{file}, &reply)
	return reply, err
}

func (s ServiceStub) CreateDirectory(directory path.Path) (bool, error) {
	var reply bool
	err := s.Invoke("CreateDirectory", []interface{}{directory}, &reply)
	return reply, err
}

func (s ServiceStub) Delete(p path.Path) (bool, error) {
	var reply bool
	err := s.Invoke("Delete", []interface{}{p}, &reply)
	return reply, err
}

func (s ServiceStub) GetStorage(file path.Path) (storage.Storage, error) {
	var reply storage.StorageStub
	err := s.Invoke("GetStorage", []interface{}{file}, &reply)
	return reply, err
}

var _ Service = ServiceStub{}

// RegistrationStub is the client-side proxy over the Registration
// interface, held by storage servers.
type RegistrationStub struct {
	rpc.Stub
}

// NewRegistrationStub builds a Registration stub at endpoint.
func NewRegistrationStub(endpoint rpc.Endpoint) (RegistrationStub, error) {
	s, err := rpc.NewStub(registrationType, endpoint)
	if err != nil {
		return RegistrationStub{}, err
	}
	return RegistrationStub{Stub: s}, nil
}

func (r RegistrationStub) Register(store storage.Storage, command storage.Command, files []path.Path) ([]path.Path, error) {
	var reply []path.Path
	err := r.Invoke("Register", []interface{}{store, command, files}, &reply)
	return reply, err
}

var _ Registration = RegistrationStub{}

// NewServiceSkeleton binds server (an implementation of Service) behind a
// Skeleton at endpoint.
func NewServiceSkeleton(server Service, endpoint rpc.Endpoint) (*rpc.Skeleton, error) {
	return rpc.NewSkeleton(serviceType, server, endpoint)
}

// NewRegistrationSkeleton binds server (an implementation of Registration)
// behind a Skeleton at endpoint.
func NewRegistrationSkeleton(server Registration, endpoint rpc.Endpoint) (*rpc.Skeleton, error) {
	return rpc.NewSkeleton(registrationType, server, endpoint)
}
