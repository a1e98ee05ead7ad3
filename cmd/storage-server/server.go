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
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/log"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

// storageServer implements both storage.Command and storage.Storage over a
// Store, keying every entry by the path's string form. It is what sits
// behind the Command and Storage skeletons a storage server registers with
// the naming server.
type storageServer struct {
	store  Store
	logger *log.Logger
}

func newStorageServer(logger *log.Logger, store Store) *storageServer {
	return &storageServer{store: store, logger: logger}
}

var (
	_ storage.Command = &storageServer{}
	_ storage.Storage = &storageServer{}
)

func (s *storageServer) Create(p path.Path) (bool, error) {
	key := p.String()
	if s.store.Has(key) {
		return false, nil
	}
	if err := s.store.Write(key, []byte{}); err != nil {
		return false, kerr.Wrap(kerr.Transport, err, "creating %s", p)
	}
	s.logger.Infof("created %s", p)
	return true, nil
}

func (s *storageServer) Delete(p path.Path) (bool, error) {
	key := p.String()
	if !s.store.Has(key) {
		return false, kerr.New(kerr.NotFound, "no such file: %s", p)
	}
	if err := s.store.Erase(key); err != nil {
		return false, kerr.Wrap(kerr.Transport, err, "deleting %s", p)
	}
	s.logger.Infof("deleted %s", p)
	return true, nil
}

func (s *storageServer) Copy(p path.Path, source storage.Storage) (bool, error) {
	size, err := source.Size(p)
	if err != nil {
		return false, err
	}
	data, err := source.Read(p, 0, size)
	if err != nil {
		return false, err
	}
	if err := s.store.Write(p.String(), data); err != nil {
		return false, kerr.Wrap(kerr.Transport, err, "copying %s", p)
	}
	s.logger.Infof("copied %s (%d bytes)", p, len(data))
	return true, nil
}

func (s *storageServer) Size(p path.Path) (int64, error) {
	data, err := s.store.Read(p.String())
	if err != nil {
		return 0, kerr.New(kerr.NotFound, "no such file: %s", p)
	}
	return int64(len(data)), nil
}

func (s *storageServer) Read(p path.Path, offset, length int64) ([]byte, error) {
	data, err := s.store.Read(p.String())
	if err != nil {
		return nil, kerr.New(kerr.NotFound, "no such file: %s", p)
	}
	if offset < 0 || length < 0 || offset+length > int64(len(data)) {
		return nil, kerr.New(kerr.InvalidArgument, "read [%d,%d) out of bounds for %s (size %d)", offset, offset+length, p, len(data))
	}
	s.logger.Debugf("read %s [%d,%d)", p, offset, offset+length)
	return data[offset : offset+length], nil
}

func (s *storageServer) Write(p path.Path, offset int64, data []byte) (bool, error) {
	if offset < 0 {
		return false, kerr.New(kerr.InvalidArgument, "negative offset writing %s", p)
	}
	key := p.String()
	existing, err := s.store.Read(key)
	if err != nil {
		existing = nil
	}
	if need := offset + int64(len(data)); need > int64(len(existing)) {
		grown := make([]byte, need)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[offset:], data)
	if err := s.store.Write(key, existing); err != nil {
		return false, kerr.Wrap(kerr.Transport, err, "writing %s", p)
	}
	s.logger.Debugf("wrote %s [%d,%d)", p, offset, offset+int64(len(data)))
	return true, nil
}
