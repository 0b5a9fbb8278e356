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

package service

import (
	"context"

	"policy-registry/src/internal/cache"
	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/diff"
	"policy-registry/src/internal/metrics"
	"policy-registry/src/internal/model"
	"policy-registry/src/internal/repository"

	"go.uber.org/zap"
)

// ReconstructService rebuilds version HTML from the nearest prior checkpoint
// plus the delta chain behind it. Results are cached under concrete version
// keys, which stay valid forever because version rows are append-only; reads
// of the unresolved latest version go through the evictable latest alias.
type ReconstructService struct {
	versionRepo repository.PolicyVersionRepository
	cache       *cache.ReconstructionCache
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewReconstructService creates a new reconstruction service. cache may be
// nil when caching is disabled.
func NewReconstructService(versionRepo repository.PolicyVersionRepository, rc *cache.ReconstructionCache, m *metrics.Metrics, logger *zap.Logger) *ReconstructService {
	return &ReconstructService{
		versionRepo: versionRepo,
		cache:       rc,
		metrics:     m,
		logger:      logger,
	}
}

// ReconstructVersion returns a committed version's row and its reconstructed
// HTML. An empty version resolves to the latest committed version. Returns
// ErrNoVersions when the policy has no history and ErrVersionNotFound when
// the requested version does not exist.
func (s *ReconstructService) ReconstructVersion(ctx context.Context, orgPolicyID, version string) (*model.PolicyVersion, string, error) {
	cacheKey := version
	if version == "" {
		cacheKey = cache.LatestKey
	}
	if entry := s.cache.Get(ctx, orgPolicyID, cacheKey); entry != nil {
		// The alias names whichever version was latest when it was written;
		// fetch the row so responses carry current status metadata.
		row, err := s.versionRepo.GetVersionByNumber(ctx, orgPolicyID, entry.Version)
		if err == nil && row != nil {
			s.metrics.CacheHitsTotal.Inc()
			return row, entry.HTML, nil
		}
	}
	if s.cache != nil {
		s.metrics.CacheMissesTotal.Inc()
	}

	versions, err := s.versionRepo.ListVersionsByOrgPolicy(ctx, orgPolicyID)
	if err != nil {
		return nil, "", err
	}
	if len(versions) == 0 {
		return nil, "", constants.ErrNoVersions
	}

	target := version
	if target == "" {
		target = versions[len(versions)-1].Version
	}

	var row *model.PolicyVersion
	for _, v := range versions {
		if v.Version == target {
			row = v
			break
		}
	}
	if row == nil {
		return nil, "", constants.ErrVersionNotFound
	}

	html, err := s.replay(versions, target)
	if err != nil {
		return nil, "", err
	}

	s.cache.Set(ctx, orgPolicyID, row.Version, cache.Entry{Version: row.Version, HTML: html})
	if version == "" {
		s.cache.Set(ctx, orgPolicyID, cache.LatestKey, cache.Entry{Version: row.Version, HTML: html})
	}
	return row, html, nil
}

// InvalidateLatest drops the latest alias after a new version commits. The
// next unresolved read re-resolves against the store.
func (s *ReconstructService) InvalidateLatest(ctx context.Context, orgPolicyID string) {
	s.cache.EvictLatest(ctx, orgPolicyID)
}

// replay rebuilds target's HTML from an ordered version sequence. It starts
// at the nearest checkpoint at or before the target and applies each
// following delta in order. A malformed delta is logged, counted and
// skipped: the document state carries past it, so one bad row degrades the
// result instead of taking the whole history down.
func (s *ReconstructService) replay(versions []*model.PolicyVersion, target string) (string, error) {
	if len(versions) == 0 {
		return "", constants.ErrNoVersions
	}

	targetIdx := -1
	for i, v := range versions {
		if v.Version == target {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return "", constants.ErrVersionNotFound
	}

	checkpointIdx := -1
	for i := targetIdx; i >= 0; i-- {
		if versions[i].IsCheckpoint() {
			checkpointIdx = i
			break
		}
	}

	base := ""
	start := 0
	if checkpointIdx >= 0 {
		base = versions[checkpointIdx].CheckpointTemplate
		start = checkpointIdx + 1
		if checkpointIdx == targetIdx {
			s.metrics.ReconstructionDepth.Observe(0)
			return base, nil
		}
	}

	applied := 0
	for i := start; i <= targetIdx; i++ {
		next, err := diff.Apply(base, versions[i].DiffData)
		if err != nil {
			s.logger.Warn("Skipping malformed delta during reconstruction",
				zap.String("orgPolicyId", versions[i].OrgPolicyID),
				zap.String("version", versions[i].Version),
				zap.Error(err))
			s.metrics.MalformedDeltasTotal.Inc()
		}
		base = next
		applied++
	}
	s.metrics.ReconstructionDepth.Observe(float64(applied))

	return base, nil
}
