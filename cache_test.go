// Copyright 2023 Ross Light
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
	"fmt"
	"testing"
	"time"
)

// newTestCache returns a cache on a manually advanced clock.
func newTestCache() (*Cache, *time.Time) {
	current := time.Date(2023, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache()
	c.now = func() time.Time { return current }
	return c, &current
}

func TestCache(t *testing.T) {
	c, _ := newTestCache()
	elements := []RenderElement{{Kind: RuleElement}}

	if _, ok := c.Get("x"); ok {
		t.Error("Get on empty cache reported a hit")
	}
	c.Put("x", elements)
	got, ok := c.Get("x")
	if !ok {
		t.Fatal("Get after Put reported a miss")
	}
	if len(got) != 1 || got[0].Kind != RuleElement {
		t.Errorf("Get returned %v", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d; want 1", c.Len())
	}
}

func TestCacheExactKey(t *testing.T) {
	c, _ := newTestCache()
	c.Put("a b", nil)
	if _, ok := c.Get("a  b"); ok {
		t.Error("whitespace variant reported a hit")
	}
	if _, ok := c.Get("a b"); !ok {
		t.Error("exact key reported a miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, clock := newTestCache()
	c.Put("x", nil)

	*clock = clock.Add(cacheTTL - time.Second)
	if _, ok := c.Get("x"); !ok {
		t.Error("entry expired before its TTL")
	}

	*clock = clock.Add(time.Second)
	if _, ok := c.Get("x"); ok {
		t.Error("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expiry; want 0", c.Len())
	}
}

func TestCacheEviction(t *testing.T) {
	c, clock := newTestCache()
	for i := 0; i <= cacheCapacity; i++ {
		*clock = clock.Add(time.Second)
		c.Put(fmt.Sprintf("key%d", i), nil)
	}
	if c.Len() != cacheCapacity {
		t.Errorf("Len() = %d; want %d", c.Len(), cacheCapacity)
	}
	if _, ok := c.Get("key0"); ok {
		t.Error("oldest entry was not evicted")
	}
	if _, ok := c.Get("key1"); !ok {
		t.Error("second-oldest entry was evicted")
	}
	if _, ok := c.Get(fmt.Sprintf("key%d", cacheCapacity)); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestElementRenderer(t *testing.T) {
	r := NewElementRenderer()
	first := r.Render("# Hi\n")
	if len(first) != 1 || first[0].Kind != HeadingElement {
		t.Fatalf("Render returned %v", summarize(first))
	}
	if r.cache.Len() != 1 {
		t.Errorf("cache.Len() = %d; want 1", r.cache.Len())
	}
	second := r.Render("# Hi\n")
	if &first[0] != &second[0] {
		t.Error("second Render did not reuse the cached slice")
	}
}
