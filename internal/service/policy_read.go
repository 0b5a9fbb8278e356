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

	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/diff"
	"policy-registry/src/internal/dto"

	"go.uber.org/zap"
)

// GetVersionData reconstructs and returns one version's HTML. An omitted
// version resolves to the latest committed version.
func (s *PolicyService) GetVersionData(ctx context.Context, req *dto.PolicyDataRequest) (*dto.PolicyDataResponse, error) {
	policy, err := s.orgPolicyRepo.GetOrgPolicyByUUID(ctx, req.OrgPolicyID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, constants.ErrOrgPolicyNotFound
	}

	row, html, err := s.reconstructor.ReconstructVersion(ctx, policy.ID, req.Version)
	if err != nil {
		return nil, err
	}

	return &dto.PolicyDataResponse{
		Message:              "Policy version HTML retrieved successfully",
		OrgPolicyID:          policy.ID,
		PolicyTitle:          policy.Title,
		Version:              row.Version,
		HTML:                 html,
		CreatedAt:            row.CreatedAt,
		Status:               row.Status,
		ReconstructionMethod: constants.ReconstructionMethodSequential,
		HTMLLength:           len(html),
		OrganizationID:       policy.OrganizationID,
	}, nil
}

// DownloadPDF reconstructs a version, wraps it in the branded export header
// and returns the rendered PDF base64-encoded. A missing organization only
// degrades the header logo; the export itself still succeeds.
func (s *PolicyService) DownloadPDF(ctx context.Context, req *dto.PolicyDownloadRequest) (*dto.PolicyDownloadResponse, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	policy, err := s.orgPolicyRepo.GetOrgPolicyByUUID(ctx, req.OrgPolicyID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, constants.ErrOrgPolicyNotFound
	}

	row, html, err := s.reconstructor.ReconstructVersion(ctx, policy.ID, req.Version)
	if err != nil {
		return nil, err
	}

	pdfBase64, err := s.renderer.RenderPolicyPDF(ctx, html, org)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Policy PDF exported",
		zap.String("orgPolicyId", policy.ID),
		zap.String("version", row.Version))

	return &dto.PolicyDownloadResponse{
		Message:        "Policy PDF generated successfully",
		OrgPolicyID:    policy.ID,
		PolicyTitle:    policy.Title,
		Version:        row.Version,
		PDFBase64:      pdfBase64,
		CreatedAt:      row.CreatedAt,
		Status:         row.Status,
		OrganizationID: req.OrganizationID,
	}, nil
}

// ListVersionHistory returns version metadata in commit order without
// reconstructing any HTML. Change counts come straight from the stored
// deltas; a malformed delta counts as zero changes.
func (s *PolicyService) ListVersionHistory(ctx context.Context, orgPolicyID string) (*dto.PolicyVersionListResponse, error) {
	policy, err := s.orgPolicyRepo.GetOrgPolicyByUUID(ctx, orgPolicyID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, constants.ErrOrgPolicyNotFound
	}

	versions, err := s.versionRepo.ListVersionsByOrgPolicy(ctx, policy.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.PolicyVersionSummary, 0, len(versions))
	for i, v := range versions {
		summaries = append(summaries, dto.PolicyVersionSummary{
			Position:     i + 1,
			Version:      v.Version,
			Status:       v.Status,
			IsCheckpoint: v.IsCheckpoint(),
			IsCurrent:    v.IsCurrent,
			ChangesCount: diff.CountChanges(v.DiffData),
			ApprovedBy:   v.ApprovedBy,
			ExpiredAt:    v.ExpiredAt,
			PublishedAt:  v.PublishedAt,
			CreatedAt:    v.CreatedAt,
		})
	}

	return &dto.PolicyVersionListResponse{
		Message:     "Policy versions retrieved successfully",
		Status:      constants.ResponseStatusSuccess,
		OrgPolicyID: policy.ID,
		PolicyTitle: policy.Title,
		Count:       len(summaries),
		Versions:    summaries,
	}, nil
}

// ListOrgPolicies returns every policy an organization has adopted, each
// with its latest version's coordinates.
func (s *PolicyService) ListOrgPolicies(ctx context.Context, organizationID string) (*dto.OrgPolicyListResponse, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}

	policies, err := s.orgPolicyRepo.ListOrgPoliciesByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.OrgPolicySummary, 0, len(policies))
	for _, p := range policies {
		count, err := s.versionRepo.CountVersions(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		latest, err := s.versionRepo.LatestVersion(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		summary := dto.OrgPolicySummary{
			OrgPolicyID:  p.ID,
			Title:        p.Title,
			PolicyType:   p.PolicyType,
			Department:   p.Department,
			Category:     p.Category,
			VersionCount: count,
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		}
		if latest != nil {
			summary.LatestVersion = latest.Version
			summary.LatestStatus = latest.Status
		}
		summaries = append(summaries, summary)
	}

	return &dto.OrgPolicyListResponse{
		Message:        "Organization policies retrieved successfully",
		Status:         constants.ResponseStatusSuccess,
		OrganizationID: org.ID,
		Count:          len(summaries),
		Policies:       summaries,
	}, nil
}
