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

package model

import (
	"time"
)

// PolicyTemplate is read-only starter content for organization policies.
// Rows are seeded at startup and never modified by the registry.
type PolicyTemplate struct {
	ID           string    `json:"id" db:"uuid"`
	Title        string    `json:"title" db:"title"`
	Code         string    `json:"code,omitempty" db:"code"`
	Description  string    `json:"description,omitempty" db:"description"`
	TemplateHTML string    `json:"templateHtml" db:"template_html"`
	Group        string    `json:"group,omitempty" db:"template_group"`
	Version      string    `json:"version,omitempty" db:"version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the PolicyTemplate model
func (PolicyTemplate) TableName() string {
	return "policy_templates"
}

// OrgPolicy is a policy adopted by one organization. Its version history
// lives in policy_versions; CurrentTemplateHTML mirrors the HTML of the most
// recently committed version.
type OrgPolicy struct {
	ID                   string    `json:"id" db:"uuid"`
	OrganizationID       string    `json:"organizationId" db:"organization_uuid"` // FK to Organization.ID
	Title                string    `json:"title" db:"title"`
	PolicyType           string    `json:"policyType" db:"policy_type"`
	CurrentTemplateHTML  string    `json:"currentTemplateHtml,omitempty" db:"current_template_html"`
	Department           string    `json:"department,omitempty" db:"department"`
	Category             string    `json:"category,omitempty" db:"category"`
	WorkforceAssignments string    `json:"workforceAssignments,omitempty" db:"workforce_assignments"` // opaque JSON: {"assignments": [...]}
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the OrgPolicy model
func (OrgPolicy) TableName() string {
	return "org_policies"
}

// OrgPolicyDefaults carries the writable fields applied when an OrgPolicy row
// is created (or refreshed) by get-or-create.
type OrgPolicyDefaults struct {
	PolicyType           string
	CurrentTemplateHTML  string
	Department           string
	Category             string
	WorkforceAssignments string
}
