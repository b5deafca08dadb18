// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package mdtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func nodeLabel(n Node) string {
	if b := n.Block(); b != nil {
		return b.Kind().String()
	}
	if inline := n.Inline(); inline != nil {
		return inline.Kind().String()
	}
	return "nil"
}

func TestWalk(t *testing.T) {
	doc := Parse("# A\n\n- x\n- y\n")
	var pre, post []string
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			pre = append(pre, nodeLabel(c.Node()))
			return true
		},
		Post: func(c *Cursor) bool {
			post = append(post, nodeLabel(c.Node()))
			return true
		},
	})

	wantPre := []string{
		"documentKind",
		"HeadingKind",
		"TextKind",
		"ListKind",
		"ListItemKind",
		"ParagraphKind",
		"TextKind",
		"ListItemKind",
		"ParagraphKind",
		"TextKind",
	}
	if diff := cmp.Diff(wantPre, pre); diff != "" {
		t.Errorf("pre-order visits (-want +got):\n%s", diff)
	}
	wantPost := []string{
		"TextKind",
		"HeadingKind",
		"TextKind",
		"ParagraphKind",
		"ListItemKind",
		"TextKind",
		"ParagraphKind",
		"ListItemKind",
		"ListKind",
		"documentKind",
	}
	if diff := cmp.Diff(wantPost, post); diff != "" {
		t.Errorf("post-order visits (-want +got):\n%s", diff)
	}
}

func TestWalkSkipSubtree(t *testing.T) {
	doc := Parse("# A\n\n- x\n")
	var visited []string
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			visited = append(visited, nodeLabel(c.Node()))
			return c.Node().Block().Kind() != ListKind
		},
	})
	want := []string{
		"documentKind",
		"HeadingKind",
		"TextKind",
		"ListKind",
	}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("visits (-want +got):\n%s", diff)
	}
}

func TestWalkParent(t *testing.T) {
	doc := Parse("text\n")
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if c.Node() == doc.AsNode() {
				if c.Parent() != (Node{}) {
					t.Errorf("root parent = %v; want zero", nodeLabel(c.Parent()))
				}
			} else if c.Parent() == (Node{}) {
				t.Errorf("%s has no parent", nodeLabel(c.Node()))
			}
			return true
		},
	})
}
