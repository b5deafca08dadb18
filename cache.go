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

import "time"

const (
	cacheTTL      = 5 * time.Minute
	cacheCapacity = 50
)

// A Cache memoizes rendered element sequences by document text.
// The key is the exact text: any change, including whitespace,
// is a miss.
// Entries expire after a fixed time to live regardless of access,
// and the oldest entries are evicted once the capacity bound
// is exceeded.
//
// A Cache is not safe for concurrent use.
// Callers must confine a cache to one goroutine
// or serialize access with a lock.
type Cache struct {
	entries map[string]*cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	elements []RenderElement
	created  time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached element sequence for the exact text,
// or ok=false on a miss or an expired entry.
func (c *Cache) Get(text string) (elements []RenderElement, ok bool) {
	e := c.entries[text]
	if e == nil {
		return nil, false
	}
	if c.now().Sub(e.created) >= cacheTTL {
		delete(c.entries, text)
		return nil, false
	}
	return e.elements, true
}

// Put stores an element sequence under the exact text,
// evicting oldest entries while the capacity bound is exceeded.
func (c *Cache) Put(text string, elements []RenderElement) {
	c.entries[text] = &cacheEntry{
		elements: elements,
		created:  c.now(),
	}
	for len(c.entries) > cacheCapacity {
		var oldestKey string
		var oldest time.Time
		first := true
		for k, e := range c.entries {
			if first || e.created.Before(oldest) {
				oldestKey, oldest = k, e.created
				first = false
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of entries currently stored,
// including any that have expired but not yet been evicted.
func (c *Cache) Len() int {
	return len(c.entries)
}

// An ElementRenderer combines a parser with a result cache,
// converting document text straight to render elements.
// Like [Cache], it is not safe for concurrent use.
type ElementRenderer struct {
	Parser Parser
	cache  *Cache
}

// NewElementRenderer returns a renderer using [DefaultConfig]
// and a fresh cache.
func NewElementRenderer() *ElementRenderer {
	return &ElementRenderer{
		Parser: Parser{Config: DefaultConfig()},
		cache:  NewCache(),
	}
}

// Render parses text and flattens it to render elements,
// reusing a cached result for identical text.
func (r *ElementRenderer) Render(text string) []RenderElement {
	if r.cache == nil {
		r.cache = NewCache()
	}
	if elements, ok := r.cache.Get(text); ok {
		return elements
	}
	elements := RenderToElements(r.Parser.Parse(text))
	r.cache.Put(text, elements)
	return elements
}
