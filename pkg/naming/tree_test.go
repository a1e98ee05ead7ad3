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
	"testing"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/rpc"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

func handleAt(t *testing.T, port int) storage.Handle {
	t.Helper()
	endpoint := rpc.Endpoint{Host: "127.0.0.1", Port: port}
	storageStub, err := storage.NewStorageStub(endpoint)
	if err != nil {
		t.Fatalf("NewStorageStub: %v", err)
	}
	commandStub, err := storage.NewCommandStub(endpoint)
	if err != nil {
		t.Fatalf("NewCommandStub: %v", err)
	}
	return storage.Handle{Storage: storageStub, Command: commandStub}
}

func mustPath(t *testing.T, s string) path.Path {
	t.Helper()
	p, err := path.New(s)
	if err != nil {
		t.Fatalf("path.New(%q): %v", s, err)
	}
	return p
}

func TestTreeCreateDirectory(t *testing.T) {
	tr := newTree()

	ok, err := tr.createDirectory(mustPath(t, "/docs"))
	if err != nil || !ok {
		t.Fatalf("createDirectory(/docs) = %v, %v; want true, nil", ok, err)
	}

	ok, err = tr.createDirectory(mustPath(t, "/docs"))
	if err != nil || ok {
		t.Fatalf("createDirectory(/docs) again = %v, %v; want false, nil", ok, err)
	}

	if _, err := tr.createDirectory(mustPath(t, "/missing/sub")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("createDirectory under missing parent: got %v, want not-found", err)
	}
}

func TestTreeCreateFileAndIsDirectory(t *testing.T) {
	tr := newTree()
	handle := handleAt(t, 9100)

	if ok, err := tr.createFile(mustPath(t, "/a.txt"), handle); err != nil || !ok {
		t.Fatalf("createFile(/a.txt) = %v, %v; want true, nil", ok, err)
	}

	isDir, err := tr.isDirectory(mustPath(t, "/a.txt"))
	if err != nil || isDir {
		t.Errorf("isDirectory(/a.txt) = %v, %v; want false, nil", isDir, err)
	}

	isDir, err = tr.isDirectory(path.Root)
	if err != nil || !isDir {
		t.Errorf("isDirectory(/) = %v, %v; want true, nil", isDir, err)
	}

	if _, err := tr.isDirectory(mustPath(t, "/nope")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("isDirectory(/nope): got %v, want not-found", err)
	}

	if ok, _ := tr.createFile(mustPath(t, "/a.txt"), handle); ok {
		t.Errorf("createFile(/a.txt) over an existing file should return false")
	}
}

func TestTreeList(t *testing.T) {
	tr := newTree()
	handle := handleAt(t, 9101)

	mustCreateDir(t, tr, "/docs")
	mustCreateFile(t, tr, "/docs/a.txt", handle)
	mustCreateFile(t, tr, "/docs/b.txt", handle)

	names, err := tr.list(mustPath(t, "/docs"))
	if err != nil {
		t.Fatalf("list(/docs): %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Errorf("list(/docs) = %v, want [a.txt b.txt]", names)
	}

	if _, err := tr.list(mustPath(t, "/docs/a.txt")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("list on a file: got %v, want not-found", err)
	}
}

func TestTreeGetStorageRoundRobin(t *testing.T) {
	tr := newTree()
	handle := handleAt(t, 9102)
	mustCreateFile(t, tr, "/a.txt", handle)

	got, err := tr.getStorage(mustPath(t, "/a.txt"))
	if err != nil {
		t.Fatalf("getStorage: %v", err)
	}
	if !got.Equal(handle) {
		t.Errorf("getStorage returned an unexpected handle")
	}

	// With a second replica on the node, successive calls alternate.
	n, _ := tr.walk(mustPath(t, "/a.txt"))
	n.replicas = append(n.replicas, handleAt(t, 9108))
	first, _ := tr.getStorage(mustPath(t, "/a.txt"))
	second, _ := tr.getStorage(mustPath(t, "/a.txt"))
	if first.Equal(second) {
		t.Errorf("getStorage did not rotate between replicas")
	}

	if _, err := tr.getStorage(mustPath(t, "/missing")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("getStorage(/missing): got %v, want not-found", err)
	}

	if _, err := tr.getStorage(path.Root); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("getStorage(/): got %v, want not-found (root is a directory)", err)
	}
}

func TestTreeDeleteFile(t *testing.T) {
	tr := newTree()
	handle := handleAt(t, 9103)
	mustCreateFile(t, tr, "/a.txt", handle)

	handles, err := tr.delete(mustPath(t, "/a.txt"))
	if err != nil {
		t.Fatalf("delete(/a.txt): %v", err)
	}
	if len(handles) != 1 || !handles[0].Equal(handle) {
		t.Errorf("delete(/a.txt) handles = %v, want [%v]", handles, handle)
	}

	if _, err := tr.isDirectory(mustPath(t, "/a.txt")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("/a.txt should be gone after delete")
	}

	if _, err := tr.delete(path.Root); kerr.KindOf(err) != kerr.InvalidArgument {
		t.Errorf("delete(/): got %v, want invalid-argument", err)
	}
}

func TestTreeDeleteDirectoryCascades(t *testing.T) {
	tr := newTree()
	h1 := handleAt(t, 9104)
	h2 := handleAt(t, 9105)

	mustCreateDir(t, tr, "/docs")
	mustCreateFile(t, tr, "/docs/a.txt", h1)
	mustCreateFile(t, tr, "/docs/b.txt", h2)

	handles, err := tr.delete(mustPath(t, "/docs"))
	if err != nil {
		t.Fatalf("delete(/docs): %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("delete(/docs) collected %d handles, want 2", len(handles))
	}

	if _, err := tr.list(mustPath(t, "/docs")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("/docs should be gone after delete")
	}
}

func TestTreeRegisterPath(t *testing.T) {
	tr := newTree()
	h1 := handleAt(t, 9106)
	h2 := handleAt(t, 9107)

	duplicate, err := tr.registerPath(mustPath(t, "/docs/a.txt"), h1)
	if err != nil || duplicate {
		t.Fatalf("registerPath first time = %v, %v; want false, nil", duplicate, err)
	}

	isDir, err := tr.isDirectory(mustPath(t, "/docs"))
	if err != nil || !isDir {
		t.Errorf("registerPath should have created the intermediate /docs directory")
	}

	duplicate, err = tr.registerPath(mustPath(t, "/docs/a.txt"), h2)
	if err != nil || !duplicate {
		t.Fatalf("registerPath of an already-registered path = %v, %v; want true, nil", duplicate, err)
	}

	duplicate, err = tr.registerPath(mustPath(t, "/docs/a.txt/nested"), h2)
	if err != nil || !duplicate {
		t.Fatalf("registerPath under a path whose prefix is a file = %v, %v; want true, nil", duplicate, err)
	}
}

func mustCreateDir(t *testing.T, tr *tree, s string) {
	t.Helper()
	if ok, err := tr.createDirectory(mustPath(t, s)); err != nil || !ok {
		t.Fatalf("createDirectory(%s) = %v, %v; want true, nil", s, ok, err)
	}
}

func mustCreateFile(t *testing.T, tr *tree, s string, handle storage.Handle) {
	t.Helper()
	if ok, err := tr.createFile(mustPath(t, s), handle); err != nil || !ok {
		t.Fatalf("createFile(%s) = %v, %v; want true, nil", s, ok, err)
	}
}
