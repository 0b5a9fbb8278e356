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

package constants

// Version Status Constants
const (
	VersionStatusDraft     = "draft"
	VersionStatusInReview  = "in_review"
	VersionStatusPublished = "published"
	VersionStatusArchived  = "archived"
)

// ValidVersionStatuses Valid policy version statuses
var ValidVersionStatuses = map[string]bool{
	VersionStatusDraft:     true,
	VersionStatusInReview:  true,
	VersionStatusPublished: true,
	VersionStatusArchived:  true,
}

// ValidStatusTransitions maps each version status to the statuses it may move to.
// Re-applying the current status is treated as an idempotent no-op by the service.
var ValidStatusTransitions = map[string][]string{
	VersionStatusDraft:     {VersionStatusInReview, VersionStatusArchived},
	VersionStatusInReview:  {VersionStatusPublished},
	VersionStatusPublished: {VersionStatusArchived},
	VersionStatusArchived:  {},
}

// Policy Type Constants
const (
	PolicyTypeOrgPolicy      = "orgpolicy"
	PolicyTypeExistingPolicy = "existingpolicy"
)

// Approver Status Constants
const (
	ApproverStatusPending  = "pending"
	ApproverStatusApproved = "approved"
	ApproverStatusRejected = "rejected"
)

// OrganizationStatusActive is the default status of a provisioned organization
const OrganizationStatusActive = "active"

// Version numbering constants
const (
	// InitialVersion is assigned to the first version of every policy.
	InitialVersion = "1.0"

	// CheckpointInterval controls full-text checkpoint placement: a checkpoint
	// is stored at position 1 and at every position >= CheckpointThreshold with
	// position % CheckpointInterval == 1, bounding replay to at most
	// CheckpointInterval-1 deltas.
	CheckpointInterval  = 10
	CheckpointThreshold = 11
)

// ReconstructionMethodSequential names the only reconstruction strategy the
// registry currently implements; it is echoed in read responses.
const ReconstructionMethodSequential = "sequential"

// Response envelope status values
const (
	ResponseStatusSuccess = "success"
	ResponseStatusError   = "error"
)
