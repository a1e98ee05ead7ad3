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

package naming

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/log"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

// ServicePort and RegistrationPort are the well-known ports the Service and
// Registration interfaces listen on. A storage server finds the naming
// server by dialling RegistrationPort directly; clients find it by dialling
// ServicePort.
const (
	ServicePort      = 8090
	RegistrationPort = 8091
)

// Server is the naming server: one in-memory directory tree shared between
// a client-facing Service skeleton and a storage-server-facing Registration
// skeleton. It implements both interfaces directly over the tree — there
// is no separate service layer between the RPC dispatch and the tree.
type Server struct {
	// Stopped is called once Stop completes. Stop always passes a nil
	// cause; a listener failure in either skeleton does not stop the
	// server and does not call Stopped. Overridable the same way
	// Skeleton's hooks are, for a caller that wants its own shutdown/exit
	// behavior.
	Stopped func(cause error)

	logger *log.Logger

	mu      sync.Mutex // guards started/stopping and the two skeletons
	started bool

	treeMu sync.Mutex // the tree's single coarse lock
	tree   *tree

	handlesMu sync.Mutex // the storage-replica registry's own lock, separate from treeMu
	handles   []storage.Handle

	rand *rand.Rand

	serviceSkeleton      *rpc.Skeleton
	registrationSkeleton *rpc.Skeleton
}

// NewServer builds a stopped naming server over an empty tree, logging
// through logger.
func NewServer(logger *log.Logger) *Server {
	return &Server{
		logger: logger,
		tree:   newTree(),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start creates and starts the Service and Registration skeletons on their
// well-known ports. It fails with kerr.IllegalState if the server is
// already running.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return kerr.New(kerr.IllegalState, "naming server running")
	}

	serviceSkeleton, err := NewServiceSkeleton(s, rpc.Endpoint{Port: ServicePort})
	if err != nil {
		return err
	}
	registrationSkeleton, err := NewRegistrationSkeleton(s, rpc.Endpoint{Port: RegistrationPort})
	if err != nil {
		return err
	}

	if err := serviceSkeleton.Start(); err != nil {
		return err
	}
	if err := registrationSkeleton.Start(); err != nil {
		serviceSkeleton.Stop()
		return err
	}

	s.serviceSkeleton = serviceSkeleton
	s.registrationSkeleton = registrationSkeleton
	s.started = true
	s.logger.Infof("naming server listening: service=%s registration=%s", serviceSkeleton.Endpoint(), registrationSkeleton.Endpoint())
	return nil
}

// Stop stops both skeletons and resets local state. It does not unregister
// any storage server — a restarted naming server starts with an empty tree
// but storage servers that re-register will repopulate it. Safe to call on
// an already-stopped server.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	serviceSkeleton, registrationSkeleton := s.serviceSkeleton, s.registrationSkeleton
	s.started = false
	s.serviceSkeleton, s.registrationSkeleton = nil, nil
	s.mu.Unlock()

	serviceSkeleton.Stop()
	registrationSkeleton.Stop()

	if s.Stopped != nil {
		s.Stopped(nil)
	}
}

// IsDirectory implements Service.
func (s *Server) IsDirectory(p path.Path) (bool, error) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()
	return s.tree.isDirectory(p)
}

// List implements Service.
func (s *Server) List(directory path.Path) ([]string, error) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()
	return s.tree.list(directory)
}

// CreateDirectory implements Service.
func (s *Server) CreateDirectory(directory path.Path) (bool, error) {
	if directory.IsRoot() {
		return false, nil
	}
	s.treeMu.Lock()
	defer s.treeMu.Unlock()
	if parentDir, err := directory.Parent(); err != nil {
		return false, kerr.New(kerr.InvalidArgument, "%s has no parent", directory)
	} else if ok, err := s.tree.isDirectory(parentDir); err != nil || !ok {
		return false, kerr.New(kerr.NotFound, "parent of %s is not a directory", directory)
	}
	return s.tree.createDirectory(directory)
}

// pickHandle chooses a registered storage server uniformly at random. It
// fails with kerr.IllegalState if none are registered.
func (s *Server) pickHandle() (storage.Handle, error) {
	s.handlesMu.Lock()
	defer s.handlesMu.Unlock()
	if len(s.handles) == 0 {
		return storage.Handle{}, kerr.New(kerr.IllegalState, "no storage servers are registered")
	}
	return s.handles[s.rand.Intn(len(s.handles))], nil
}

// CreateFile implements Service. It picks a registered storage server
// uniformly at random, stages the path in the tree, then asks that server
// to materialize it; a remote create failure rolls the tree entry back.
func (s *Server) CreateFile(file path.Path) (bool, error) {
	if file.IsRoot() {
		return false, nil
	}

	handle, err := s.pickHandle()
	if err != nil {
		return false, err
	}

	s.treeMu.Lock()
	parentDir, perr := file.Parent()
	if perr != nil {
		s.treeMu.Unlock()
		return false, kerr.New(kerr.InvalidArgument, "%s has no parent", file)
	}
	if ok, err := s.tree.isDirectory(parentDir); err != nil || !ok {
		s.treeMu.Unlock()
		return false, kerr.New(kerr.NotFound, "parent of %s is not a directory", file)
	}
	created, err := s.tree.createFile(file, handle)
	s.treeMu.Unlock()
	if err != nil || !created {
		return false, err
	}
	s.logger.Debugf("staged %s in tree, materializing on %s", file, handle.Command.Endpoint())

	ok, err := handle.Command.Create(file)
	if err != nil || !ok {
		s.treeMu.Lock()
		_, _ = s.tree.delete(file)
		s.treeMu.Unlock()
		if err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Delete implements Service. Every replica that hosted the removed subtree
// is told to delete its local copy; transport failures there are logged,
// not propagated, matching the tree's own delete contract. Outbound
// Command.Delete calls run after the tree lock is released, so they never
// hold it across network I/O.
func (s *Server) Delete(p path.Path) (bool, error) {
	if p.IsRoot() {
		return false, nil
	}
	s.treeMu.Lock()
	handles, err := s.tree.delete(p)
	s.treeMu.Unlock()
	if err != nil {
		return false, err
	}

	s.logger.Debugf("removed %s from tree, telling %d replica(s) to drop their local copy", p, len(handles))
	for _, h := range handles {
		if _, err := h.Command.Delete(p); err != nil {
			s.logger.Warnf("delete %s: replica at %s did not confirm: %v", p, h.Command.Endpoint(), err)
		}
	}
	return true, nil
}

// GetStorage implements Service.
func (s *Server) GetStorage(file path.Path) (storage.Storage, error) {
	s.treeMu.Lock()
	defer s.treeMu.Unlock()
	handle, err := s.tree.getStorage(file)
	if err != nil {
		return nil, err
	}
	return handle.Storage, nil
}

// Register implements Registration.
func (s *Server) Register(store storage.Storage, command storage.Command, files []path.Path) ([]path.Path, error) {
	if store == nil || command == nil {
		return nil, kerr.New(kerr.NullArgument, "registering with null arguments")
	}

	storeStub, ok := store.(storage.StorageStub)
	if !ok {
		return nil, kerr.New(kerr.BadInterface, "storage capability is not a registered stub type")
	}
	commandStub, ok := command.(storage.CommandStub)
	if !ok {
		return nil, kerr.New(kerr.BadInterface, "command capability is not a registered stub type")
	}
	handle := storage.Handle{Storage: storeStub, Command: commandStub}

	s.handlesMu.Lock()
	for _, existing := range s.handles {
		if existing.Equal(handle) {
			s.handlesMu.Unlock()
			return nil, kerr.New(kerr.IllegalState, "duplicate storage server registration")
		}
	}
	s.handles = append(s.handles, handle)
	s.handlesMu.Unlock()

	s.treeMu.Lock()
	var duplicates []path.Path
	for _, p := range files {
		if p.IsRoot() {
			continue
		}
		duplicate, err := s.tree.registerPath(p, handle)
		if err != nil {
			s.treeMu.Unlock()
			return nil, err
		}
		if duplicate {
			duplicates = append(duplicates, p)
		}
	}
	s.treeMu.Unlock()

	s.logger.Infof("registered storage server %s; %d files, %d duplicates", commandStub.Endpoint(), len(files), len(duplicates))
	return duplicates, nil
}

var _ Service = (*Server)(nil)
var _ Registration = (*Server)(nil)
