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
	"io/ioutil"
	"sync"
	"testing"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/log"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

// fakeStorageServer is a minimal Command+Storage implementation used to
// stand in for a real storage server when exercising the naming server's
// Registration and Service surfaces end to end.
type fakeStorageServer struct {
	mu         sync.Mutex
	created    []path.Path
	deleted    []path.Path
	failCreate bool
}

func (f *fakeStorageServer) Create(p path.Path) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return false, nil
	}
	f.created = append(f.created, p)
	return true, nil
}

func (f *fakeStorageServer) Delete(p path.Path) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, p)
	return true, nil
}

func (f *fakeStorageServer) Copy(p path.Path, source storage.Storage) (bool, error) {
	return true, nil
}

func (f *fakeStorageServer) Size(p path.Path) (int64, error)  { return 0, nil }
func (f *fakeStorageServer) Read(p path.Path, offset, length int64) ([]byte, error) {
	return nil, nil
}
func (f *fakeStorageServer) Write(p path.Path, offset int64, data []byte) (bool, error) {
	return true, nil
}

// startFakeStorageServer starts Command and Storage skeletons over impl on
// system-assigned ports and returns the (storage, command) stub pair ready
// to hand to Registration.Register.
func startFakeStorageServer(t *testing.T, impl *fakeStorageServer) (storage.StorageStub, storage.CommandStub) {
	t.Helper()

	storageSkeleton, err := storage.NewStorageSkeleton(impl, rpc.Endpoint{Host: "127.0.0.1"})
	if err != nil {
		t.Fatalf("NewStorageSkeleton: %v", err)
	}
	if err := storageSkeleton.Start(); err != nil {
		t.Fatalf("Start storage skeleton: %v", err)
	}
	t.Cleanup(storageSkeleton.Stop)

	commandSkeleton, err := storage.NewCommandSkeleton(impl, rpc.Endpoint{Host: "127.0.0.1"})
	if err != nil {
		t.Fatalf("NewCommandSkeleton: %v", err)
	}
	if err := commandSkeleton.Start(); err != nil {
		t.Fatalf("Start command skeleton: %v", err)
	}
	t.Cleanup(commandSkeleton.Stop)

	storageStub, err := storage.NewStorageStub(storageSkeleton.Endpoint())
	if err != nil {
		t.Fatalf("NewStorageStub: %v", err)
	}
	commandStub, err := storage.NewCommandStub(commandSkeleton.Endpoint())
	if err != nil {
		t.Fatalf("NewCommandStub: %v", err)
	}
	return storageStub, commandStub
}

func newTestServer() *Server {
	return NewServer(log.New(log.Writer(ioutil.Discard)))
}

func TestRegisterDuplicateServer(t *testing.T) {
	server := newTestServer()
	impl := &fakeStorageServer{}
	storageStub, commandStub := startFakeStorageServer(t, impl)

	if _, err := server.Register(storageStub, commandStub, nil); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := server.Register(storageStub, commandStub, nil); kerr.KindOf(err) != kerr.IllegalState {
		t.Errorf("duplicate Register: got %v, want illegal-state", err)
	}
}

func TestRegisterNullArguments(t *testing.T) {
	server := newTestServer()
	if _, err := server.Register(nil, nil, nil); kerr.KindOf(err) != kerr.NullArgument {
		t.Errorf("Register with nil args: got %v, want null-argument", err)
	}
}

func TestRegisterDuplicatePathAcrossServers(t *testing.T) {
	server := newTestServer()
	impl1 := &fakeStorageServer{}
	s1, c1 := startFakeStorageServer(t, impl1)
	impl2 := &fakeStorageServer{}
	s2, c2 := startFakeStorageServer(t, impl2)

	if _, err := server.Register(s1, c1, []path.Path{mustPath(t, "/a"), mustPath(t, "/b")}); err != nil {
		t.Fatalf("Register s1: %v", err)
	}

	dup, err := server.Register(s2, c2, []path.Path{mustPath(t, "/a"), mustPath(t, "/c")})
	if err != nil {
		t.Fatalf("Register s2: %v", err)
	}
	if len(dup) != 1 || !dup[0].Equal(mustPath(t, "/a")) {
		t.Errorf("Register s2 duplicates = %v, want [/a]", dup)
	}
}

func TestCreateFileAndGetStorage(t *testing.T) {
	server := newTestServer()
	impl := &fakeStorageServer{}
	storageStub, commandStub := startFakeStorageServer(t, impl)
	if _, err := server.Register(storageStub, commandStub, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ok, err := server.CreateFile(mustPath(t, "/x"))
	if err != nil || !ok {
		t.Fatalf("CreateFile(/x) = %v, %v; want true, nil", ok, err)
	}

	got, err := server.GetStorage(mustPath(t, "/x"))
	if err != nil {
		t.Fatalf("GetStorage(/x): %v", err)
	}
	if got.(storage.StorageStub).Endpoint() != storageStub.Endpoint() {
		t.Errorf("GetStorage(/x) returned the wrong replica")
	}

	isDir, err := server.IsDirectory(path.Root)
	if err != nil || !isDir {
		t.Errorf("IsDirectory(/) = %v, %v; want true, nil", isDir, err)
	}
	names, err := server.List(path.Root)
	if err != nil || len(names) != 1 || names[0] != "x" {
		t.Errorf("List(/) = %v, %v; want [x], nil", names, err)
	}
}

func TestCreateFileRollsBackOnRemoteFailure(t *testing.T) {
	server := newTestServer()
	impl := &fakeStorageServer{failCreate: true}
	storageStub, commandStub := startFakeStorageServer(t, impl)
	if _, err := server.Register(storageStub, commandStub, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ok, err := server.CreateFile(mustPath(t, "/x"))
	if err != nil || ok {
		t.Fatalf("CreateFile(/x) = %v, %v; want false, nil", ok, err)
	}

	if _, err := server.GetStorage(mustPath(t, "/x")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("CreateFile should have rolled back the tree entry, got %v", err)
	}
}

func TestCreateFileConcurrentRaceHasOneWinner(t *testing.T) {
	server := newTestServer()
	impl := &fakeStorageServer{}
	storageStub, commandStub := startFakeStorageServer(t, impl)
	if _, err := server.Register(storageStub, commandStub, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	const attempts = 8
	results := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := server.CreateFile(mustPath(t, "/x"))
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("create_file race: %d goroutines won, want exactly 1", wins)
	}
}

func TestDeleteCascadesToReplicas(t *testing.T) {
	server := newTestServer()
	impl1 := &fakeStorageServer{}
	s1, c1 := startFakeStorageServer(t, impl1)
	impl2 := &fakeStorageServer{}
	s2, c2 := startFakeStorageServer(t, impl2)

	if _, err := server.Register(s1, c1, []path.Path{mustPath(t, "/docs/a")}); err != nil {
		t.Fatalf("Register s1: %v", err)
	}
	if _, err := server.Register(s2, c2, []path.Path{mustPath(t, "/docs/b")}); err != nil {
		t.Fatalf("Register s2: %v", err)
	}

	ok, err := server.Delete(mustPath(t, "/docs"))
	if err != nil || !ok {
		t.Fatalf("Delete(/docs) = %v, %v; want true, nil", ok, err)
	}

	impl1.mu.Lock()
	got1 := len(impl1.deleted)
	impl1.mu.Unlock()
	impl2.mu.Lock()
	got2 := len(impl2.deleted)
	impl2.mu.Unlock()
	if got1 != 1 || got2 != 1 {
		t.Errorf("Delete(/docs) replica notifications = (%d, %d), want (1, 1)", got1, got2)
	}

	if _, err := server.IsDirectory(mustPath(t, "/docs")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("IsDirectory(/docs) after delete: got %v, want not-found", err)
	}
}

func TestDeleteRoot(t *testing.T) {
	server := newTestServer()
	if ok, err := server.Delete(path.Root); err != nil || ok {
		t.Errorf("Delete(/) = %v, %v; want false, nil", ok, err)
	}
}
