// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
)

// A Cache holds rendered chart bodies keyed by the hash of everything
// they are drawn from. A nil *Cache caches nothing.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache

	hits, misses int
}

// NewCache returns a Cache holding at most maxEntries bodies.
func NewCache(maxEntries int) *Cache {
	return &Cache{lru: lru.New(maxEntries)}
}

// Get returns the body stored under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return v.([]byte), true
}

// Add stores body under key.
func (c *Cache) Add(key string, body []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, body)
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached bodies.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Hash returns a content hash of every input the body of c is drawn
// from: its series' names, colors and values of c's metric, the
// metric definition, the dimensions and any x domain override.
func (c *Chart) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%q %q %q %q\n", c.Key, c.Title, c.Description, c.Unit)
	fmt.Fprintf(h, "%v\n", c.Dims)
	if c.XDomain != nil {
		fmt.Fprintf(h, "x %v\n", *c.XDomain)
	}
	for i := range c.Series {
		s := &c.Series[i]
		fmt.Fprintf(h, "series %q %q %d\n", s.Name, s.Color, len(s.Points))
		for j, p := range s.Points {
			fmt.Fprintf(h, "%d %v\n", p.BlockNumber, s.Value(j, c.Key))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
