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

	"policy-registry/src/internal/database"
	"policy-registry/src/internal/model"
)

// PolicyApproverRepo implements PolicyApproverRepository
type PolicyApproverRepo struct {
	db *database.DB
}

// NewPolicyApproverRepo creates a new policy approver repository
func NewPolicyApproverRepo(db *database.DB) PolicyApproverRepository {
	return &PolicyApproverRepo{db: db}
}

// CreatePolicyApproverTx binds an employee to a version inside the caller's
// transaction
func (r *PolicyApproverRepo) CreatePolicyApproverTx(ctx context.Context, tx *sql.Tx, approver *model.PolicyApprover) error {
	approver.CreatedAt = time.Now()
	approver.UpdatedAt = approver.CreatedAt

	query := `
		INSERT INTO policy_approvers (uuid, policy_version_uuid, approver_uuid, approval_condition, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query),
		approver.ID, approver.PolicyVersionID, approver.ApproverID,
		approver.Condition, approver.Status, approver.CreatedAt, approver.UpdatedAt)

	return err
}

// GetApproverByVersionAndEmployee retrieves the approver binding for one
// (version, employee) pair
func (r *PolicyApproverRepo) GetApproverByVersionAndEmployee(ctx context.Context, policyVersionID, approverID string) (*model.PolicyApprover, error) {
	return r.getApproverByVersionAndEmployee(ctx, r.db, policyVersionID, approverID)
}

// GetApproverByVersionAndEmployeeTx is GetApproverByVersionAndEmployee inside
// the caller's transaction. Decisions re-read the binding after taking the
// policy lock so they act on committed state.
func (r *PolicyApproverRepo) GetApproverByVersionAndEmployeeTx(ctx context.Context, tx *sql.Tx, policyVersionID, approverID string) (*model.PolicyApprover, error) {
	return r.getApproverByVersionAndEmployee(ctx, tx, policyVersionID, approverID)
}

func (r *PolicyApproverRepo) getApproverByVersionAndEmployee(ctx context.Context, q Querier, policyVersionID, approverID string) (*model.PolicyApprover, error) {
	approver := &model.PolicyApprover{}
	query := `
		SELECT uuid, policy_version_uuid, approver_uuid, approval_condition, status, created_at, updated_at
		FROM policy_approvers
		WHERE policy_version_uuid = ? AND approver_uuid = ?
	`
	err := q.QueryRowContext(ctx, r.db.Rebind(query), policyVersionID, approverID).Scan(
		&approver.ID, &approver.PolicyVersionID, &approver.ApproverID,
		&approver.Condition, &approver.Status, &approver.CreatedAt, &approver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return approver, nil
}

// UpdateApproverDecisionTx records a decision on an approver binding inside
// the caller's transaction
func (r *PolicyApproverRepo) UpdateApproverDecisionTx(ctx context.Context, tx *sql.Tx, approverId, status, condition string) error {
	query := `
		UPDATE policy_approvers
		SET status = ?, approval_condition = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query), status, condition, time.Now(), approverId)
	return err
}
