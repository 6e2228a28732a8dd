// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides the in-memory cache of compiled JavaScript (L1).
// Entries are keyed by the resolved template file, written at most once,
// and never evicted: the cache lives as long as the process.
package soyjs

import (
	"log/slog"
	"sync"

	"soyview/internal/template"
)

// scriptCache is a concurrency-safe map of template file to compiled source.
type scriptCache struct {
	mu      sync.RWMutex
	entries map[template.File]string
}

// newScriptCache creates an empty script cache.
func newScriptCache() *scriptCache {
	return &scriptCache{
		entries: make(map[template.File]string),
	}
}

// get retrieves the compiled source for a file.
func (c *scriptCache) get(f template.File) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.entries[f]
	return src, ok
}

// putIfAbsent stores src unless the file already has an entry. It returns
// the value held by the cache afterwards and whether this call stored it.
func (c *scriptCache) putIfAbsent(f template.File, src string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[f]; ok {
		return existing, false
	}
	c.entries[f] = src
	slog.Debug("compiled template cached", "file", f.Path, "size", len(c.entries))
	return src, true
}

// len reports the number of cached files.
func (c *scriptCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
