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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"policy-registry/src/internal/database"
	"policy-registry/src/internal/model"
)

// OrgPolicyRepo implements OrgPolicyRepository
type OrgPolicyRepo struct {
	db *database.DB
}

// NewOrgPolicyRepo creates a new org policy repository
func NewOrgPolicyRepo(db *database.DB) OrgPolicyRepository {
	return &OrgPolicyRepo{db: db}
}

// GetOrgPolicyByUUID retrieves an org policy by ID
func (r *OrgPolicyRepo) GetOrgPolicyByUUID(ctx context.Context, orgPolicyId string) (*model.OrgPolicy, error) {
	policy := &model.OrgPolicy{}
	query := `
		SELECT uuid, organization_uuid, title, policy_type, current_template_html,
		       department, category, workforce_assignments, created_at, updated_at
		FROM org_policies
		WHERE uuid = ?
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), orgPolicyId).Scan(
		&policy.ID, &policy.OrganizationID, &policy.Title, &policy.PolicyType,
		&policy.CurrentTemplateHTML, &policy.Department, &policy.Category,
		&policy.WorkforceAssignments, &policy.CreatedAt, &policy.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return policy, nil
}

// GetOrCreateOrgPolicy fetches the policy keyed by (organizationID, title),
// creating it when absent. An existing row has its writable fields refreshed
// from defaults; policy_type is only set at creation. The insert can lose a
// race with a concurrent caller on the unique (organization_uuid, title)
// constraint, so a failed attempt is retried once and lands on the update
// branch. The created flag is therefore true for exactly one caller.
func (r *OrgPolicyRepo) GetOrCreateOrgPolicy(ctx context.Context, organizationID, title string, defaults *model.OrgPolicyDefaults) (*model.OrgPolicy, bool, error) {
	policy, created, err := r.getOrCreateOrgPolicy(ctx, organizationID, title, defaults)
	if err == nil {
		return policy, created, nil
	}
	return r.getOrCreateOrgPolicy(ctx, organizationID, title, defaults)
}

func (r *OrgPolicyRepo) getOrCreateOrgPolicy(ctx context.Context, organizationID, title string, defaults *model.OrgPolicyDefaults) (*model.OrgPolicy, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	policy := &model.OrgPolicy{}
	query := `
		SELECT uuid, organization_uuid, title, policy_type, current_template_html,
		       department, category, workforce_assignments, created_at, updated_at
		FROM org_policies
		WHERE organization_uuid = ? AND title = ?` + r.db.ForUpdate()
	err = tx.QueryRowContext(ctx, r.db.Rebind(query), organizationID, title).Scan(
		&policy.ID, &policy.OrganizationID, &policy.Title, &policy.PolicyType,
		&policy.CurrentTemplateHTML, &policy.Department, &policy.Category,
		&policy.WorkforceAssignments, &policy.CreatedAt, &policy.UpdatedAt,
	)

	switch {
	case err == nil:
		policy.CurrentTemplateHTML = defaults.CurrentTemplateHTML
		policy.Department = defaults.Department
		policy.Category = defaults.Category
		policy.WorkforceAssignments = defaults.WorkforceAssignments
		policy.UpdatedAt = time.Now()

		update := `
			UPDATE org_policies
			SET current_template_html = ?, department = ?, category = ?, workforce_assignments = ?, updated_at = ?
			WHERE uuid = ?
		`
		if _, err := tx.ExecContext(ctx, r.db.Rebind(update),
			policy.CurrentTemplateHTML, policy.Department, policy.Category,
			policy.WorkforceAssignments, policy.UpdatedAt, policy.ID); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return policy, false, nil

	case errors.Is(err, sql.ErrNoRows):
		now := time.Now()
		policy = &model.OrgPolicy{
			ID:                   uuid.New().String(),
			OrganizationID:       organizationID,
			Title:                title,
			PolicyType:           defaults.PolicyType,
			CurrentTemplateHTML:  defaults.CurrentTemplateHTML,
			Department:           defaults.Department,
			Category:             defaults.Category,
			WorkforceAssignments: defaults.WorkforceAssignments,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		insert := `
			INSERT INTO org_policies (uuid, organization_uuid, title, policy_type, current_template_html,
				department, category, workforce_assignments, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, r.db.Rebind(insert),
			policy.ID, policy.OrganizationID, policy.Title, policy.PolicyType,
			policy.CurrentTemplateHTML, policy.Department, policy.Category,
			policy.WorkforceAssignments, policy.CreatedAt, policy.UpdatedAt); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return policy, true, nil

	default:
		return nil, false, err
	}
}

// LockOrgPolicyTx reads the policy row and keeps it locked until tx ends.
// Writers that mutate the version sequence of one policy take this lock
// first so counts and version numbers stay consistent.
func (r *OrgPolicyRepo) LockOrgPolicyTx(ctx context.Context, tx *sql.Tx, orgPolicyId string) (*model.OrgPolicy, error) {
	policy := &model.OrgPolicy{}
	query := `
		SELECT uuid, organization_uuid, title, policy_type, current_template_html,
		       department, category, workforce_assignments, created_at, updated_at
		FROM org_policies
		WHERE uuid = ?` + r.db.ForUpdate()
	err := tx.QueryRowContext(ctx, r.db.Rebind(query), orgPolicyId).Scan(
		&policy.ID, &policy.OrganizationID, &policy.Title, &policy.PolicyType,
		&policy.CurrentTemplateHTML, &policy.Department, &policy.Category,
		&policy.WorkforceAssignments, &policy.CreatedAt, &policy.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return policy, nil
}

// UpdateOrgPolicyContentTx overwrites the mirrored HTML and workforce
// assignments of a policy inside the caller's transaction
func (r *OrgPolicyRepo) UpdateOrgPolicyContentTx(ctx context.Context, tx *sql.Tx, orgPolicyId, templateHTML, workforceAssignments string) error {
	query := `
		UPDATE org_policies
		SET current_template_html = ?, workforce_assignments = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query),
		templateHTML, workforceAssignments, time.Now(), orgPolicyId)
	return err
}

// ListOrgPoliciesByOrganization retrieves all policies of an organization,
// newest first
func (r *OrgPolicyRepo) ListOrgPoliciesByOrganization(ctx context.Context, organizationID string) ([]*model.OrgPolicy, error) {
	query := `
		SELECT uuid, organization_uuid, title, policy_type, current_template_html,
		       department, category, workforce_assignments, created_at, updated_at
		FROM org_policies
		WHERE organization_uuid = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*model.OrgPolicy
	for rows.Next() {
		policy := &model.OrgPolicy{}
		err := rows.Scan(
			&policy.ID, &policy.OrganizationID, &policy.Title, &policy.PolicyType,
			&policy.CurrentTemplateHTML, &policy.Department, &policy.Category,
			&policy.WorkforceAssignments, &policy.CreatedAt, &policy.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}

	return policies, rows.Err()
}
