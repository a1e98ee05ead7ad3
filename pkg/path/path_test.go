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

package path_test

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/kerr"
	"github.com/ashraghunath/DSD-Assignment3-DFS-RMI/pkg/path"
)

func TestNewAndString(t *testing.T) {
	var tests = []struct {
		input    string
		expected string
	}{
		{"/", "/"},
		{"/a", "/a"},
		{"/a/b/c", "/a/b/c"},
		{"/a/b//c", "/a/b/c"},
		{"//a//b///c//", "/a/b/c"},
	}

	for _, test := range tests {
		p, err := path.New(test.input)
		if err != nil {
			t.Fatalf("New(%q): unexpected error: %v", test.input, err)
		}
		if got := p.String(); got != test.expected {
			t.Errorf("New(%q).String() = %q, want %q", test.input, got, test.expected)
		}
	}
}

func TestNewRejects(t *testing.T) {
	var tests = []string{"", "a/b", "/a:b", "/a/b:"}
	for _, input := range tests {
		if _, err := path.New(input); kerr.KindOf(err) != kerr.InvalidArgument {
			t.Errorf("New(%q): expected invalid-argument, got %v", input, err)
		}
	}
}

func TestComponents(t *testing.T) {
	p := path.MustNew("/a/b/c")
	if got, want := p.Components(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"/", "/a", "/a/b/c", "/x/y"} {
		p := path.MustNew(s)
		q := path.MustNew(p.String())
		if !p.Equal(q) {
			t.Errorf("Path(%q).String() did not round-trip: %v != %v", s, p, q)
		}
	}
}

func TestIsRoot(t *testing.T) {
	if !path.Root.IsRoot() {
		t.Errorf("Root.IsRoot() = false, want true")
	}
	if path.MustNew("/a").IsRoot() {
		t.Errorf("Path(/a).IsRoot() = true, want false")
	}
}

func TestParentAndLast(t *testing.T) {
	p := path.MustNew("/a/b/c")
	parent, err := p.Parent()
	if err != nil {
		t.Fatalf("Parent(): unexpected error: %v", err)
	}
	if want := "/a/b"; parent.String() != want {
		t.Errorf("Parent() = %q, want %q", parent.String(), want)
	}

	last, err := p.Last()
	if err != nil {
		t.Fatalf("Last(): unexpected error: %v", err)
	}
	if want := "c"; last != want {
		t.Errorf("Last() = %q, want %q", last, want)
	}

	if _, err := path.Root.Parent(); kerr.KindOf(err) != kerr.InvalidArgument {
		t.Errorf("Root.Parent(): expected invalid-argument, got %v", err)
	}
	if _, err := path.Root.Last(); kerr.KindOf(err) != kerr.InvalidArgument {
		t.Errorf("Root.Last(): expected invalid-argument, got %v", err)
	}
}

func TestIsSubpath(t *testing.T) {
	var tests = []struct {
		p, q     string
		expected bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b", "/a", true},
		{"/a", "/a", true},
		{"/a/b", "/", true},
		{"/ab", "/a", false},
		{"/a", "/a/b", false},
		{"/ax/y", "/a", false},
	}

	for _, test := range tests {
		p, q := path.MustNew(test.p), path.MustNew(test.q)
		if got := p.IsSubpath(q); got != test.expected {
			t.Errorf("Path(%q).IsSubpath(Path(%q)) = %v, want %v", test.p, test.q, got, test.expected)
		}
	}
}

func TestAppend(t *testing.T) {
	p, err := path.MustNew("/a").Append("b")
	if err != nil {
		t.Fatalf("Append: unexpected error: %v", err)
	}
	if want := "/a/b"; p.String() != want {
		t.Errorf("Append result = %q, want %q", p.String(), want)
	}

	if _, err := path.Root.Append(""); kerr.KindOf(err) != kerr.InvalidArgument {
		t.Errorf("Append(\"\"): expected invalid-argument, got %v", err)
	}
	if _, err := path.Root.Append("a/b"); kerr.KindOf(err) != kerr.InvalidArgument {
		t.Errorf("Append(\"a/b\"): expected invalid-argument, got %v", err)
	}
}

func TestListLocal(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "a", "b"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, f := range []string{"root.txt", filepath.Join("a", "one.txt"), filepath.Join("a", "b", "two.txt")} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile(%q): %v", f, err)
		}
	}

	got, err := path.ListLocal(dir)
	if err != nil {
		t.Fatalf("ListLocal(%q): unexpected error: %v", dir, err)
	}
	var gotStrings []string
	for _, p := range got {
		gotStrings = append(gotStrings, p.String())
	}
	sort.Strings(gotStrings)

	want := []string{"/a/b/two.txt", "/a/one.txt", "/root.txt"}
	if !reflect.DeepEqual(gotStrings, want) {
		t.Errorf("ListLocal(%q) = %v, want %v", dir, gotStrings, want)
	}
}

func TestListLocalRejects(t *testing.T) {
	if _, err := path.ListLocal(filepath.Join(t.TempDir(), "does-not-exist")); kerr.KindOf(err) != kerr.NotFound {
		t.Errorf("ListLocal(missing dir): expected not-found, got %v", err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := path.ListLocal(file); kerr.KindOf(err) != kerr.InvalidArgument {
		t.Errorf("ListLocal(regular file): expected invalid-argument, got %v", err)
	}
}
