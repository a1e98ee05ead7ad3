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

// Package path implements the immutable hierarchical path value shared by
// every interface in this module: the naming server's Service and
// Registration interfaces, and the storage server's Storage and Command
// interfaces, all exchange Path values as arguments.
package path

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
)

// Delimiter separates path components on the wire and in string form.
const Delimiter = "/"

// Reserved is disallowed within a component; it's set aside for application
// use (e.g. disambiguating version tags), not used by this package itself.
const Reserved = ":"

// Path is an ordered, immutable sequence of non-empty components. The zero
// value is the root path. Path values are safe to share across goroutines:
// nothing in this package ever mutates the backing slice of an existing
// Path, every operation that changes component content allocates a new one.
type Path struct {
	components []string
}

// Root is the path with zero components.
var Root = Path{}

// New parses a path string. Runs of consecutive delimiters collapse and
// empty components are dropped, but the string must still open with a
// delimiter and must not contain the reserved character.
func New(s string) (Path, error) {
	if s == "" {
		return Path{}, kerr.New(kerr.InvalidArgument, "empty path string")
	}
	if !strings.HasPrefix(s, Delimiter) {
		return Path{}, kerr.New(kerr.InvalidArgument, "path %q does not start with %q", s, Delimiter)
	}
	if strings.Contains(s, Reserved) {
		return Path{}, kerr.New(kerr.InvalidArgument, "path %q contains reserved character %q", s, Reserved)
	}

	var components []string
	for _, c := range strings.Split(s, Delimiter) {
		if c == "" {
			continue
		}
		components = append(components, c)
	}
	return Path{components: components}, nil
}

// MustNew is New but panics on error; reserved for constants in tests.
func MustNew(s string) Path {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

func isValidComponent(c string) bool {
	return c != "" && !strings.Contains(c, Delimiter) && !strings.Contains(c, Reserved)
}

// Append returns a new path formed by appending component to p. p itself is
// untouched.
func (p Path) Append(component string) (Path, error) {
	if !isValidComponent(component) {
		return Path{}, kerr.New(kerr.InvalidArgument, "invalid path component %q", component)
	}
	next := make([]string, len(p.components)+1)
	copy(next, p.components)
	next[len(p.components)] = component
	return Path{components: next}, nil
}

// Components returns a defensive copy of p's ordered components. Mutating
// the returned slice never affects p.
func (p Path) Components() []string {
	out := make([]string, len(p.components))
	copy(out, p.components)
	return out
}

// IsRoot reports whether p has zero components.
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Parent returns the path with the last component removed. It fails on the
// root path, which has no parent.
//
// The obvious recursive implementation ("re-append every component but the
// last") is where the source this was ported from goes wrong, repeatedly
// appending the *first* component instead of walking the whole prefix; this
// builds the parent from the actual prefix.
func (p Path) Parent() (Path, error) {
	if p.IsRoot() {
		return Path{}, kerr.New(kerr.InvalidArgument, "root has no parent")
	}
	n := len(p.components) - 1
	parent := make([]string, n)
	copy(parent, p.components[:n])
	return Path{components: parent}, nil
}

// Last returns the final component of p. It fails on the root path.
func (p Path) Last() (string, error) {
	if p.IsRoot() {
		return "", kerr.New(kerr.InvalidArgument, "root has no last component")
	}
	return p.components[len(p.components)-1], nil
}

// IsSubpath reports whether other's components are a (not necessarily
// proper) prefix of p's components — i.e. p lies within the subtree rooted
// at other. Matching is component-wise, so Path("/ab").IsSubpath(Path("/a"))
// is false even though the string "/ab" has "/a" as a string prefix.
func (p Path) IsSubpath(other Path) bool {
	if len(other.components) > len(p.components) {
		return false
	}
	for i, c := range other.components {
		if p.components[i] != c {
			return false
		}
	}
	return true
}

// Equal reports structural, component-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if other.components[i] != c {
			return false
		}
	}
	return true
}

// String renders p as a delimiter-joined string; the root renders as "/".
func (p Path) String() string {
	if p.IsRoot() {
		return Delimiter
	}
	return Delimiter + strings.Join(p.components, Delimiter)
}

// ToFile concatenates root with p's string form, producing a local
// filesystem path a storage backend can open directly.
func (p Path) ToFile(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.String()))
}

// ListLocal enumerates every regular file under the local directory dir,
// returning paths relative to dir. It fails with kerr.NotFound if dir
// doesn't exist and kerr.InvalidArgument if dir exists but isn't a
// directory.
func ListLocal(dir string) ([]Path, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, kerr.Wrap(kerr.NotFound, err, "directory %q does not exist", dir)
	}
	if err != nil {
		return nil, kerr.Wrap(kerr.Transport, err, "stat %q", dir)
	}
	if !info.IsDir() {
		return nil, kerr.New(kerr.InvalidArgument, "%q is not a directory", dir)
	}

	var out []Path
	walkErr := filepath.Walk(dir, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rp, err := New(Delimiter + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		out = append(out, rp)
		return nil
	})
	if walkErr != nil {
		return nil, kerr.Wrap(kerr.Transport, walkErr, "walking %q", dir)
	}
	return out, nil
}

// GobEncode/GobDecode let Path cross the RPC wire as a self-describing
// value: the encoded form carries both the string rendering and the
// pre-split component list, so a decoder never needs to re-parse the
// string to recover components.
type wireForm struct {
	String     string
	Components []string
}

func (p Path) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := wireForm{String: p.String(), Components: p.Components()}
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, fmt.Errorf("encoding path wire form: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Path) GobDecode(data []byte) error {
	var w wireForm
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return fmt.Errorf("decoding path wire form: %w", err)
	}
	p.components = w.Components
	return nil
}
