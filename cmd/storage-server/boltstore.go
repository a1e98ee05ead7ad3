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
	"fmt"
	"sync"

	"github.com/boltdb/bolt"
	"github.com/google/btree"
)

var filesBucket = []byte("files")

// keyItem is a btree.Item over a bare string key, used to keep an ordered,
// in-memory index of every key the bucket holds so Keys (consulted once
// per storage-server startup, to report local files at registration) never
// has to open a bolt cursor over the whole bucket.
type keyItem string

func (k keyItem) Less(other btree.Item) bool { return k < other.(keyItem) }

// boltStore is the default Store: one bolt database file, one bucket,
// values addressed by a path's string form.
type boltStore struct {
	mu   sync.RWMutex
	db   *bolt.DB
	keys *btree.BTree
}

func newBoltStore(filePath string) (*boltStore, error) {
	db, err := bolt.Open(filePath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt store at %s: %w", filePath, err)
	}

	keys := btree.New(32)
	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(filesBucket)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys.ReplaceOrInsert(keyItem(k))
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("indexing bolt store at %s: %w", filePath, err)
	}

	return &boltStore{db: db, keys: keys}, nil
}

func (b *boltStore) Close() error { return b.db.Close() }

func (b *boltStore) Read(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(filesBucket).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("no such key: %s", key)
		}
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

func (b *boltStore) Write(key string, val []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(filesBucket).Put([]byte(key), val)
	})
	if err != nil {
		return err
	}
	b.keys.ReplaceOrInsert(keyItem(key))
	return nil
}

func (b *boltStore) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.keys.Has(keyItem(key))
}

func (b *boltStore) Erase(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(filesBucket).Delete([]byte(key))
	})
	if err != nil {
		return err
	}
	b.keys.Delete(keyItem(key))
	return nil
}

func (b *boltStore) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, b.keys.Len())
	b.keys.Ascend(func(item btree.Item) bool {
		keys = append(keys, string(item.(keyItem)))
		return true
	})
	return keys, nil
}
