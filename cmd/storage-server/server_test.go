// Copyright 2018 The Kura Authors.
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

package storageserver

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/log"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
)

// fakeStore is an in-memory Store used to exercise storageServer without a
// real bolt database.
type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Read(key string) ([]byte, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, errNoSuchKey(key)
	}
	return v, nil
}

func (f *fakeStore) Write(key string, val []byte) error {
	f.data[key] = append([]byte(nil), val...)
	return nil
}

func (f *fakeStore) Has(key string) bool {
	_, ok := f.data[key]
	return ok
}

func (f *fakeStore) Erase(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

type notFoundError string

func errNoSuchKey(key string) error { return notFoundError(key) }
func (e notFoundError) Error() string { return "no such key: " + string(e) }

func newTestStorageServer() (*storageServer, *fakeStore) {
	store := newFakeStore()
	logger := log.New(log.Writer(ioutil.Discard))
	return newStorageServer(logger, store), store
}

func TestStorageServerCreate(t *testing.T) {
	s, store := newTestStorageServer()
	p := path.MustNew("/a/b.txt")

	created, err := s.Create(p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Fatal("Create returned false on first creation")
	}
	if !store.Has(p.String()) {
		t.Fatal("Create did not write the key to the store")
	}

	created, err = s.Create(p)
	if err != nil {
		t.Fatalf("Create (duplicate): %v", err)
	}
	if created {
		t.Fatal("Create returned true on an already-existing key")
	}
}

func TestStorageServerDelete(t *testing.T) {
	s, store := newTestStorageServer()
	p := path.MustNew("/a/b.txt")

	if _, err := s.Delete(p); err == nil {
		t.Fatal("Delete on a missing key did not error")
	}

	store.data[p.String()] = []byte("x")
	deleted, err := s.Delete(p)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete returned false")
	}
	if store.Has(p.String()) {
		t.Fatal("Delete left the key in the store")
	}
}

func TestStorageServerWriteThenRead(t *testing.T) {
	s, _ := newTestStorageServer()
	p := path.MustNew("/a/b.txt")

	if ok, err := s.Write(p, 0, []byte("hello")); err != nil || !ok {
		t.Fatalf("Write: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Write(p, 5, []byte(" world")); err != nil || !ok {
		t.Fatalf("Write (append): ok=%v err=%v", ok, err)
	}

	size, err := s.Size(p)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != int64(len("hello world")) {
		t.Fatalf("Size = %d, want %d", size, len("hello world"))
	}

	data, err := s.Read(p, 0, size)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, []byte("hello world")) {
		t.Fatalf("Read = %q, want %q", data, "hello world")
	}
}

func TestStorageServerReadOutOfBounds(t *testing.T) {
	s, store := newTestStorageServer()
	p := path.MustNew("/a/b.txt")
	store.data[p.String()] = []byte("hello")

	if _, err := s.Read(p, 3, 10); err == nil {
		t.Fatal("Read past end of file did not error")
	}
	if _, err := s.Write(p, -1, []byte("x")); err == nil {
		t.Fatal("Write with negative offset did not error")
	}
}

func TestStorageServerCopy(t *testing.T) {
	dst, _ := newTestStorageServer()
	src, srcStore := newTestStorageServer()

	p := path.MustNew("/a/b.txt")
	srcStore.data[p.String()] = []byte("copy me")

	ok, err := dst.Copy(p, src)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if !ok {
		t.Fatal("Copy returned false")
	}

	data, err := dst.Read(p, 0, int64(len("copy me")))
	if err != nil {
		t.Fatalf("Read after Copy: %v", err)
	}
	if !bytes.Equal(data, []byte("copy me")) {
		t.Fatalf("Read after Copy = %q, want %q", data, "copy me")
	}
}
