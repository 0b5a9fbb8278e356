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

package dto

import (
	"encoding/json"
	"time"
)

// PolicyInitialiseRequest creates or refreshes an OrgPolicy from a template.
// WorkforceAssignment is an opaque JSON array passed through unmodified.
type PolicyInitialiseRequest struct {
	OrganizationID      string          `json:"organization_id" binding:"required"`
	PolicyTemplateID    string          `json:"policy_template_id" binding:"required"`
	Department          string          `json:"department"`
	Category            string          `json:"category"`
	WorkforceAssignment json.RawMessage `json:"workforce_assignment"`
	Version             string          `json:"version"`
}

type PolicyInitialiseResponse struct {
	Message              string          `json:"message"`
	Status               string          `json:"status"`
	OrgPolicyID          string          `json:"org_policy_id"`
	Created              bool            `json:"created"`
	Title                string          `json:"title"`
	Version              string          `json:"version"`
	WorkforceAssignments json.RawMessage `json:"workforce_assignments"`
}

// PolicyCreateInitialVersionRequest commits the first version of an
// initialised policy. HTMLContent overrides the generated template when set.
type PolicyCreateInitialVersionRequest struct {
	OrgPolicyID string  `json:"org_policy_id" binding:"required"`
	HTMLContent *string `json:"html_content"`
	Approver    string  `json:"approver"`
}

type PolicyCreateInitialVersionResponse struct {
	Message          string `json:"message"`
	Status           string `json:"status"`
	OrgPolicyID      string `json:"org_policy_id"`
	PolicyVersionID  string `json:"policy_version_id"`
	VersionNumber    string `json:"version_number"`
	CheckpointSource string `json:"checkpoint_source"`
	ChangesCount     int    `json:"changes_count"`
	Approver         string `json:"approver,omitempty"`
}

// PolicyUpdateRequest commits a new version holding the delta from the
// policy's latest committed HTML to HTMLContent. ExpiredAt is an optional
// "YYYY-MM-DD" date stamped onto the new version.
type PolicyUpdateRequest struct {
	OrgPolicyID         string          `json:"org_policy_id" binding:"required"`
	OrganizationID      string          `json:"organization_id" binding:"required"`
	HTMLContent         string          `json:"html_content" binding:"required"`
	WorkforceAssignment json.RawMessage `json:"workforce_assignment" binding:"required"`
	Approver            string          `json:"approver" binding:"required"`
	Version             string          `json:"version"`
	ExpiredAt           string          `json:"expired_at"`
}

type PolicyUpdateResponse struct {
	Message         string `json:"message"`
	Status          string `json:"status"`
	OrgPolicyID     string `json:"org_policy_id"`
	PolicyVersionID string `json:"policy_version_id"`
	VersionNumber   string `json:"version_number"`
	VersionPosition int    `json:"version_position"`
	IsCheckpoint    bool   `json:"is_checkpoint"`
	CheckpointSaved bool   `json:"checkpoint_saved"`
	ChangesCount    int    `json:"changes_count"`
}

// PolicyDataRequest reads one version's reconstructed HTML. Version defaults
// to the latest committed version.
type PolicyDataRequest struct {
	OrgPolicyID string `json:"org_policy_id" binding:"required"`
	Version     string `json:"version"`
}

type PolicyDataResponse struct {
	Message              string    `json:"message"`
	OrgPolicyID          string    `json:"org_policy_id"`
	PolicyTitle          string    `json:"policy_title"`
	Version              string    `json:"version"`
	HTML                 string    `json:"html"`
	CreatedAt            time.Time `json:"created_at"`
	Status               string    `json:"status"`
	ReconstructionMethod string    `json:"reconstruction_method"`
	HTMLLength           int       `json:"html_length"`
	OrganizationID       string    `json:"organization_id"`
}

type PolicyDownloadRequest struct {
	OrgPolicyID    string `json:"org_policy_id" binding:"required"`
	Version        string `json:"version" binding:"required"`
	OrganizationID string `json:"organization_id" binding:"required"`
}

type PolicyDownloadResponse struct {
	Message        string    `json:"message"`
	OrgPolicyID    string    `json:"org_policy_id"`
	PolicyTitle    string    `json:"policy_title"`
	Version        string    `json:"version"`
	PDFBase64      string    `json:"pdf_base64"`
	CreatedAt      time.Time `json:"created_at"`
	Status         string    `json:"status"`
	OrganizationID string    `json:"organization_id"`
}

// PolicyStatusRequest moves a version through the draft, in_review,
// published, archived state machine. Version defaults to the latest.
type PolicyStatusRequest struct {
	OrgPolicyID string `json:"org_policy_id" binding:"required"`
	Version     string `json:"version"`
	Status      string `json:"status" binding:"required"`
}

type PolicyStatusResponse struct {
	Message         string `json:"message"`
	Status          string `json:"status"`
	OrgPolicyID     string `json:"org_policy_id"`
	PolicyVersionID string `json:"policy_version_id"`
	Version         string `json:"version"`
	PreviousStatus  string `json:"previous_status"`
	NewStatus       string `json:"new_status"`
	IsCurrent       bool   `json:"is_current"`
}

// PolicyApproveRequest records an approver's decision on a version.
type PolicyApproveRequest struct {
	OrgPolicyID string `json:"org_policy_id" binding:"required"`
	Version     string `json:"version"`
	Approver    string `json:"approver" binding:"required"`
	Decision    string `json:"decision" binding:"required"`
	Condition   string `json:"condition"`
}

type PolicyApproveResponse struct {
	Message         string `json:"message"`
	Status          string `json:"status"`
	OrgPolicyID     string `json:"org_policy_id"`
	PolicyVersionID string `json:"policy_version_id"`
	Version         string `json:"version"`
	Approver        string `json:"approver"`
	Decision        string `json:"decision"`
	Condition       string `json:"condition,omitempty"`
}

// PolicyVersionSummary is a history entry without reconstructed HTML.
type PolicyVersionSummary struct {
	Position     int        `json:"position"`
	Version      string     `json:"version"`
	Status       string     `json:"status"`
	IsCheckpoint bool       `json:"is_checkpoint"`
	IsCurrent    bool       `json:"is_current"`
	ChangesCount int        `json:"changes_count"`
	ApprovedBy   string     `json:"approved_by,omitempty"`
	ExpiredAt    *time.Time `json:"expired_at,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type PolicyVersionListResponse struct {
	Message     string                 `json:"message"`
	Status      string                 `json:"status"`
	OrgPolicyID string                 `json:"org_policy_id"`
	PolicyTitle string                 `json:"policy_title"`
	Count       int                    `json:"count"`
	Versions    []PolicyVersionSummary `json:"versions"`
}
