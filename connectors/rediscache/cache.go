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

// Package rediscache stores resolved document library folder handles in Redis
// so that repeated migrations into the same library skip the folder walk.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"docbridge/migration"
)

const (
	// KeyPrefix namespaces every cache entry
	KeyPrefix = "docbridge:folder:"

	// DefaultTTL bounds how long a handle is trusted after it was resolved
	DefaultTTL = 24 * time.Hour
)

// FolderCache is a migration.FolderCache backed by Redis.
// Redis failures are logged and treated as cache misses.
type FolderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

var _ migration.FolderCache = (*FolderCache)(nil)

// Connect parses redisURL (redis://host:port/db), pings the server and returns a cache
func Connect(ctx context.Context, redisURL string, ttl time.Duration) (*FolderCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return New(client, ttl), nil
}

// New wraps an existing client. A non-positive ttl uses DefaultTTL.
func New(client *redis.Client, ttl time.Duration) *FolderCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FolderCache{
		client: client,
		ttl:    ttl,
		logger: log.New(os.Stderr, "[DOCBRIDGE_REDIS] ", log.LstdFlags),
	}
}

// Get returns the cached handle for key
func (c *FolderCache) Get(ctx context.Context, key string) (migration.FolderHandle, bool) {
	val, err := c.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Printf("Warning: folder cache lookup failed for %s: %v (treating as miss)", key, err)
		return "", false
	}
	return migration.FolderHandle(val), true
}

// Put stores handle under key with the configured TTL
func (c *FolderCache) Put(ctx context.Context, key string, handle migration.FolderHandle) {
	if err := c.client.Set(ctx, KeyPrefix+key, string(handle), c.ttl).Err(); err != nil {
		c.logger.Printf("Warning: folder cache write failed for %s: %v", key, err)
	}
}

// Invalidate removes every cached handle of one library namespace
func (c *FolderCache) Invalidate(ctx context.Context, namespace string) (int, error) {
	pattern := KeyPrefix + namespace + "|*"
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan folder cache: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete folder cache keys: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Close releases the underlying connection pool
func (c *FolderCache) Close() error {
	return c.client.Close()
}
