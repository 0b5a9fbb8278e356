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
	"encoding/json"
	"time"
)

// PolicyVersion is one immutable step in a policy's history. DiffData holds
// the line delta from the predecessor (from the empty string for the first
// version); CheckpointTemplate holds the complete HTML when the version is a
// checkpoint and is empty otherwise. Rows are append-only: after insert only
// Status, IsCurrent, PublishedAt, ApprovedBy and UpdatedAt may change.
type PolicyVersion struct {
	ID                 string          `json:"id" db:"uuid"`
	OrgPolicyID        string          `json:"orgPolicyId" db:"org_policy_uuid"` // FK to OrgPolicy.ID
	Version            string          `json:"version" db:"version"`             // "MAJOR.MINOR"
	Status             string          `json:"status" db:"status"`
	IsCurrent          bool            `json:"isCurrent" db:"is_current"`
	DiffData           json.RawMessage `json:"diffData,omitempty" db:"diff_data"`
	CheckpointTemplate string          `json:"checkpointTemplate,omitempty" db:"checkpoint_template"`
	ExpiredAt          *time.Time      `json:"expiredAt,omitempty" db:"expired_at"`
	PublishedAt        *time.Time      `json:"publishedAt,omitempty" db:"published_at"`
	ApprovedBy         string          `json:"approvedBy,omitempty" db:"approved_by"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the PolicyVersion model
func (PolicyVersion) TableName() string {
	return "policy_versions"
}

// IsCheckpoint reports whether reconstruction may start directly from this
// version's stored HTML.
func (v *PolicyVersion) IsCheckpoint() bool {
	return v.CheckpointTemplate != ""
}

// PolicyApprover binds an employee to a policy version for sign-off.
type PolicyApprover struct {
	ID              string    `json:"id" db:"uuid"`
	PolicyVersionID string    `json:"policyVersionId" db:"policy_version_uuid"` // FK to PolicyVersion.ID
	ApproverID      string    `json:"approverId" db:"approver_uuid"`            // FK to Employee.ID
	Condition       string    `json:"condition,omitempty" db:"approval_condition"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the PolicyApprover model
func (PolicyApprover) TableName() string {
	return "policy_approvers"
}
