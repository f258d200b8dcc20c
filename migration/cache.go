// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migration

import (
	"context"
	"strings"
	"sync"
)

// FolderCache remembers resolved folder handles between EnsurePath calls.
// Implementations must treat lookup failures as misses.
type FolderCache interface {
	Get(ctx context.Context, key string) (FolderHandle, bool)
	Put(ctx context.Context, key string, handle FolderHandle)
}

// FolderCacheKey builds the cache key for a path prefix within a library
func FolderCacheKey(namespace string, segments []string) string {
	return namespace + "|" + strings.ToLower(strings.Join(segments, "/"))
}

// MemoryFolderCache is a process-local FolderCache
type MemoryFolderCache struct {
	mu      sync.RWMutex
	entries map[string]FolderHandle
}

// NewMemoryFolderCache creates an empty in-memory cache
func NewMemoryFolderCache() *MemoryFolderCache {
	return &MemoryFolderCache{entries: make(map[string]FolderHandle)}
}

// Get returns the cached handle for key
func (c *MemoryFolderCache) Get(_ context.Context, key string) (FolderHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.entries[key]
	return h, ok
}

// Put stores handle under key
func (c *MemoryFolderCache) Put(_ context.Context, key string, handle FolderHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = handle
}

// Len returns the number of cached entries
func (c *MemoryFolderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
