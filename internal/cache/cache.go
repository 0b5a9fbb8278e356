/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LatestKey is the version alias under which the most recent reconstruction
// of a policy is cached. Entries stored under a concrete version number stay
// valid forever because version rows are append-only; only this alias has to
// be evicted when a new version is committed.
const LatestKey = "latest"

// Entry is the cached result of a reconstruction. Version records which
// concrete version number the HTML belongs to, so a hit on the latest alias
// can be validated against the store before it is served.
type Entry struct {
	Version string `json:"version"`
	HTML    string `json:"html"`
}

// ReconstructionCache stores reconstructed policy HTML in Redis. A nil
// *ReconstructionCache is a valid disabled cache: every lookup misses and
// writes are dropped.
type ReconstructionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReconstructionCache connects to the Redis instance at addr. The
// connection is verified eagerly so a misconfigured address fails at
// startup instead of on the first read.
func NewReconstructionCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*ReconstructionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to cache at %s: %w", addr, err)
	}

	return &ReconstructionCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func key(orgPolicyID, version string) string {
	return fmt.Sprintf("policy:%s:version:%s", orgPolicyID, version)
}

// Get returns the cached entry for the given policy and version, or nil on a
// miss. Cache failures are logged and reported as misses so reads always fall
// through to reconstruction.
func (c *ReconstructionCache) Get(ctx context.Context, orgPolicyID, version string) *Entry {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, key(orgPolicyID, version)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed",
				zap.String("orgPolicyId", orgPolicyID),
				zap.String("version", version),
				zap.Error(err))
		}
		return nil
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn("Cache entry is not valid JSON, treating as miss",
			zap.String("orgPolicyId", orgPolicyID),
			zap.String("version", version),
			zap.Error(err))
		return nil
	}
	return &entry
}

// Set stores a reconstruction result under the given version key. Failures
// are logged and swallowed; a cache write must never fail a read request.
func (c *ReconstructionCache) Set(ctx context.Context, orgPolicyID, version string, entry Entry) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry",
			zap.String("orgPolicyId", orgPolicyID),
			zap.String("version", version),
			zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key(orgPolicyID, version), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed",
			zap.String("orgPolicyId", orgPolicyID),
			zap.String("version", version),
			zap.Error(err))
	}
}

// EvictLatest drops the latest alias for a policy. It is called after a new
// version commits so the next read of the latest version re-resolves against
// the store.
func (c *ReconstructionCache) EvictLatest(ctx context.Context, orgPolicyID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(orgPolicyID, LatestKey)).Err(); err != nil {
		c.logger.Warn("Cache eviction failed",
			zap.String("orgPolicyId", orgPolicyID),
			zap.Error(err))
	}
}

// Close releases the underlying Redis connection.
func (c *ReconstructionCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
