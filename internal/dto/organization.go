package dto

import (
	"time"
)

// OrgPolicySummary is a per-organization listing entry with the latest
// version's coordinates attached.
type OrgPolicySummary struct {
	OrgPolicyID   string    `json:"org_policy_id"`
	Title         string    `json:"title"`
	PolicyType    string    `json:"policy_type"`
	Department    string    `json:"department,omitempty"`
	Category      string    `json:"category,omitempty"`
	LatestVersion string    `json:"latest_version,omitempty"`
	LatestStatus  string    `json:"latest_status,omitempty"`
	VersionCount  int       `json:"version_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type OrgPolicyListResponse struct {
	Message        string             `json:"message"`
	Status         string             `json:"status"`
	OrganizationID string             `json:"organization_id"`
	Count          int                `json:"count"`
	Policies       []OrgPolicySummary `json:"policies"`
}
