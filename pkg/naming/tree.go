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
	"sort"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/storage"
)

// node is one entry of the namespace tree. A directory has children and no
// replicas; a file has replicas and no children. The root is always a
// directory.
type node struct {
	isDirectory bool
	children    map[string]*node

	// Replica bookkeeping, files only. cursor tracks the next replica to
	// hand out on GetStorage, round-robin across the list.
	replicas []storage.Handle
	cursor   int
}

func newDirectory() *node {
	return &node{isDirectory: true, children: map[string]*node{}}
}

func newFile(handle storage.Handle) *node {
	return &node{isDirectory: false, replicas: []storage.Handle{handle}}
}

// tree is the naming server's namespace: a single in-memory directory tree
// guarded by one coarse lock rather than a lock per node, trading away
// intra-tree parallelism for an implementation with no deadlock ordering
// to get wrong. The tree itself holds no lock: that lock is Server.treeMu,
// and every Server method holds it around its calls into the tree.
type tree struct {
	root *node
}

func newTree() *tree {
	return &tree{root: newDirectory()}
}

// walk resolves p against the tree, returning the node and, for every
// component but the last, requiring it to already be a directory. The
// caller decides whether a missing final component is itself an error.
func (t *tree) walk(p path.Path) (*node, bool) {
	n := t.root
	for _, c := range p.Components() {
		if !n.isDirectory {
			return nil, false
		}
		next, ok := n.children[c]
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}

// walkParent resolves p's parent directory, failing unless every component
// up to (not including) the last one names an existing directory.
func (t *tree) walkParent(p path.Path) (*node, error) {
	parent, err := p.Parent()
	if err != nil {
		return nil, kerr.New(kerr.InvalidArgument, "path %s has no parent", p)
	}
	n, ok := t.walk(parent)
	if !ok {
		return nil, kerr.New(kerr.NotFound, "parent of %s does not exist", p)
	}
	if !n.isDirectory {
		return nil, kerr.New(kerr.NotFound, "parent of %s is not a directory", p)
	}
	return n, nil
}

func (t *tree) isDirectory(p path.Path) (bool, error) {
	if p.IsRoot() {
		return true, nil
	}
	n, ok := t.walk(p)
	if !ok {
		return false, kerr.New(kerr.NotFound, "no such file or directory: %s", p)
	}
	return n.isDirectory, nil
}

func (t *tree) list(p path.Path) ([]string, error) {
	n, ok := t.walk(p)
	if !ok {
		return nil, kerr.New(kerr.NotFound, "no such directory: %s", p)
	}
	if !n.isDirectory {
		return nil, kerr.New(kerr.NotFound, "%s is not a directory", p)
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// createDirectory creates an empty directory and any implied nothing else —
// unlike mkdir -p, the parent must already exist, matching the Java
// source's single-level naming_createdirectory.
func (t *tree) createDirectory(p path.Path) (bool, error) {
	if p.IsRoot() {
		return false, nil
	}
	parent, err := t.walkParent(p)
	if err != nil {
		return false, err
	}
	name, err := p.Last()
	if err != nil {
		return false, err
	}
	if _, exists := parent.children[name]; exists {
		return false, nil
	}
	parent.children[name] = newDirectory()
	return true, nil
}

// createFile inserts a brand-new file entry pointing at handle. It fails
// closed (false, nil) on any naming conflict, mirroring createDirectory,
// and is the single path by which a file first enters the tree from a
// client's naming_createfile call.
func (t *tree) createFile(p path.Path, handle storage.Handle) (bool, error) {
	if p.IsRoot() {
		return false, kerr.New(kerr.InvalidArgument, "cannot create the root as a file")
	}
	parent, err := t.walkParent(p)
	if err != nil {
		return false, err
	}
	name, err := p.Last()
	if err != nil {
		return false, err
	}
	if _, exists := parent.children[name]; exists {
		return false, nil
	}
	parent.children[name] = newFile(handle)
	return true, nil
}

// registerPath inserts p as a new file backed by handle, creating missing
// intermediate directories along the way. It reports duplicate, without
// making any change, when p already names a file or directory — including
// when some proper prefix of p already names a file rather than a
// directory. The caller (Registration.Register) collects every duplicate
// and tells the newly-registering storage server to delete its local copy,
// since some earlier replica is already authoritative for that path.
func (t *tree) registerPath(p path.Path, handle storage.Handle) (duplicate bool, err error) {
	if p.IsRoot() {
		return false, kerr.New(kerr.InvalidArgument, "cannot register the root as a file")
	}
	n := t.root
	components := p.Components()
	for _, c := range components[:len(components)-1] {
		if !n.isDirectory {
			return true, nil
		}
		next, ok := n.children[c]
		if !ok {
			next = newDirectory()
			n.children[c] = next
		}
		n = next
	}
	if !n.isDirectory {
		return true, nil
	}

	name := components[len(components)-1]
	if _, exists := n.children[name]; exists {
		return true, nil
	}
	n.children[name] = newFile(handle)
	return false, nil
}

// getStorage returns the next replica of file in round-robin order.
func (t *tree) getStorage(p path.Path) (storage.Handle, error) {
	n, ok := t.walk(p)
	if !ok {
		return storage.Handle{}, kerr.New(kerr.NotFound, "no such file: %s", p)
	}
	if n.isDirectory {
		return storage.Handle{}, kerr.New(kerr.NotFound, "%s is a directory", p)
	}
	handle := n.replicas[n.cursor%len(n.replicas)]
	n.cursor++
	return handle, nil
}

// delete removes p from the tree and returns every storage handle that
// hosted a byte of what was removed — a single handle for a file, the
// union of every descendant file's handles for a directory. The caller is
// responsible for issuing Command.Delete against each.
func (t *tree) delete(p path.Path) ([]storage.Handle, error) {
	if p.IsRoot() {
		return nil, kerr.New(kerr.InvalidArgument, "cannot delete the root directory")
	}
	parent, err := t.walkParent(p)
	if err != nil {
		return nil, err
	}
	name, err := p.Last()
	if err != nil {
		return nil, err
	}
	n, ok := parent.children[name]
	if !ok {
		return nil, kerr.New(kerr.NotFound, "no such file or directory: %s", p)
	}

	var handles []storage.Handle
	collectHandles(n, &handles)
	delete(parent.children, name)
	return handles, nil
}

func collectHandles(n *node, out *[]storage.Handle) {
	if !n.isDirectory {
	replicas:
		for _, h := range n.replicas {
			for _, seen := range *out {
				if seen.Equal(h) {
					continue replicas
				}
			}
			*out = append(*out, h)
		}
		return
	}
	for _, child := range n.children {
		collectHandles(child, out)
	}
}
