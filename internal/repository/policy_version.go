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
	"encoding/json"
	"errors"
	"time"

	"policy-registry/src/internal/database"
	"policy-registry/src/internal/model"
)

// PolicyVersionRepo implements PolicyVersionRepository
type PolicyVersionRepo struct {
	db *database.DB
}

// NewPolicyVersionRepo creates a new policy version repository
func NewPolicyVersionRepo(db *database.DB) PolicyVersionRepository {
	return &PolicyVersionRepo{db: db}
}

// ListVersionsByOrgPolicy retrieves the full version sequence of a policy,
// oldest first. Creation order defines version positions.
func (r *PolicyVersionRepo) ListVersionsByOrgPolicy(ctx context.Context, orgPolicyID string) ([]*model.PolicyVersion, error) {
	return r.listVersions(ctx, r.db, orgPolicyID)
}

// ListVersionsTx is ListVersionsByOrgPolicy inside the caller's transaction.
// Update reads the sequence under the policy row lock so positions cannot
// race with a concurrent commit.
func (r *PolicyVersionRepo) ListVersionsTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) ([]*model.PolicyVersion, error) {
	return r.listVersions(ctx, tx, orgPolicyID)
}

func (r *PolicyVersionRepo) listVersions(ctx context.Context, q Querier, orgPolicyID string) ([]*model.PolicyVersion, error) {
	query := `
		SELECT uuid, org_policy_uuid, version, status, is_current, diff_data,
		       checkpoint_template, expired_at, published_at, approved_by,
		       created_at, updated_at
		FROM policy_versions
		WHERE org_policy_uuid = ?
		ORDER BY created_at ASC
	`
	rows, err := q.QueryContext(ctx, r.db.Rebind(query), orgPolicyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*model.PolicyVersion
	for rows.Next() {
		version := &model.PolicyVersion{}
		err := rows.Scan(
			&version.ID, &version.OrgPolicyID, &version.Version, &version.Status,
			&version.IsCurrent, &version.DiffData, &version.CheckpointTemplate,
			&version.ExpiredAt, &version.PublishedAt, &version.ApprovedBy,
			&version.CreatedAt, &version.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

// CountVersions counts the committed versions of a policy
func (r *PolicyVersionRepo) CountVersions(ctx context.Context, orgPolicyID string) (int, error) {
	return r.countVersions(ctx, r.db, orgPolicyID)
}

// CountVersionsTx counts the versions of a policy inside the caller's
// transaction
func (r *PolicyVersionRepo) CountVersionsTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) (int, error) {
	return r.countVersions(ctx, tx, orgPolicyID)
}

func (r *PolicyVersionRepo) countVersions(ctx context.Context, q Querier, orgPolicyID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM policy_versions WHERE org_policy_uuid = ?`
	err := q.QueryRowContext(ctx, r.db.Rebind(query), orgPolicyID).Scan(&count)
	return count, err
}

// LatestVersion retrieves the most recently created version of a policy
func (r *PolicyVersionRepo) LatestVersion(ctx context.Context, orgPolicyID string) (*model.PolicyVersion, error) {
	return r.latestVersion(ctx, r.db, orgPolicyID)
}

// LatestVersionTx is LatestVersion inside the caller's transaction
func (r *PolicyVersionRepo) LatestVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) (*model.PolicyVersion, error) {
	return r.latestVersion(ctx, tx, orgPolicyID)
}

func (r *PolicyVersionRepo) latestVersion(ctx context.Context, q Querier, orgPolicyID string) (*model.PolicyVersion, error) {
	version := &model.PolicyVersion{}
	query := `
		SELECT uuid, org_policy_uuid, version, status, is_current, diff_data,
		       checkpoint_template, expired_at, published_at, approved_by,
		       created_at, updated_at
		FROM policy_versions
		WHERE org_policy_uuid = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := q.QueryRowContext(ctx, r.db.Rebind(query), orgPolicyID).Scan(
		&version.ID, &version.OrgPolicyID, &version.Version, &version.Status,
		&version.IsCurrent, &version.DiffData, &version.CheckpointTemplate,
		&version.ExpiredAt, &version.PublishedAt, &version.ApprovedBy,
		&version.CreatedAt, &version.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return version, nil
}

// FirstVersion retrieves the oldest version of a policy. The first committed
// row is the sequence's initial checkpoint.
func (r *PolicyVersionRepo) FirstVersion(ctx context.Context, orgPolicyID string) (*model.PolicyVersion, error) {
	version := &model.PolicyVersion{}
	query := `
		SELECT uuid, org_policy_uuid, version, status, is_current, diff_data,
		       checkpoint_template, expired_at, published_at, approved_by,
		       created_at, updated_at
		FROM policy_versions
		WHERE org_policy_uuid = ?
		ORDER BY created_at ASC
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), orgPolicyID).Scan(
		&version.ID, &version.OrgPolicyID, &version.Version, &version.Status,
		&version.IsCurrent, &version.DiffData, &version.CheckpointTemplate,
		&version.ExpiredAt, &version.PublishedAt, &version.ApprovedBy,
		&version.CreatedAt, &version.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return version, nil
}

// GetVersionByNumber retrieves one version by its unique
// (org_policy_uuid, version) pair
func (r *PolicyVersionRepo) GetVersionByNumber(ctx context.Context, orgPolicyID, versionNumber string) (*model.PolicyVersion, error) {
	return r.getVersionByNumber(ctx, r.db, orgPolicyID, versionNumber)
}

// GetVersionByNumberTx is GetVersionByNumber inside the caller's transaction
func (r *PolicyVersionRepo) GetVersionByNumberTx(ctx context.Context, tx *sql.Tx, orgPolicyID, versionNumber string) (*model.PolicyVersion, error) {
	return r.getVersionByNumber(ctx, tx, orgPolicyID, versionNumber)
}

func (r *PolicyVersionRepo) getVersionByNumber(ctx context.Context, q Querier, orgPolicyID, versionNumber string) (*model.PolicyVersion, error) {
	version := &model.PolicyVersion{}
	query := `
		SELECT uuid, org_policy_uuid, version, status, is_current, diff_data,
		       checkpoint_template, expired_at, published_at, approved_by,
		       created_at, updated_at
		FROM policy_versions
		WHERE org_policy_uuid = ? AND version = ?
	`
	err := q.QueryRowContext(ctx, r.db.Rebind(query), orgPolicyID, versionNumber).Scan(
		&version.ID, &version.OrgPolicyID, &version.Version, &version.Status,
		&version.IsCurrent, &version.DiffData, &version.CheckpointTemplate,
		&version.ExpiredAt, &version.PublishedAt, &version.ApprovedBy,
		&version.CreatedAt, &version.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return version, nil
}

// CreatePolicyVersionTx inserts a new version row inside the caller's
// transaction. The delta is bound as a string so the postgres driver sends
// it as text for the JSONB column instead of a bytea literal.
func (r *PolicyVersionRepo) CreatePolicyVersionTx(ctx context.Context, tx *sql.Tx, version *model.PolicyVersion) error {
	version.CreatedAt = time.Now()
	version.UpdatedAt = version.CreatedAt
	if len(version.DiffData) == 0 {
		version.DiffData = json.RawMessage(`{}`)
	}

	query := `
		INSERT INTO policy_versions (uuid, org_policy_uuid, version, status, is_current,
			diff_data, checkpoint_template, expired_at, published_at, approved_by,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query),
		version.ID, version.OrgPolicyID, version.Version, version.Status, version.IsCurrent,
		string(version.DiffData), version.CheckpointTemplate, version.ExpiredAt,
		version.PublishedAt, version.ApprovedBy, version.CreatedAt, version.UpdatedAt)

	return err
}

// UpdateVersionStatusTx sets a version's status inside the caller's
// transaction. publishedAt is only written when non-nil; COALESCE keeps the
// stored stamp otherwise, so archiving never erases publication history.
func (r *PolicyVersionRepo) UpdateVersionStatusTx(ctx context.Context, tx *sql.Tx, versionId, status string, publishedAt *time.Time) error {
	query := `
		UPDATE policy_versions
		SET status = ?, published_at = COALESCE(?, published_at), updated_at = ?
		WHERE uuid = ?
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query), status, publishedAt, time.Now(), versionId)
	return err
}

// ClearCurrentVersionTx clears the is_current flag on whichever version of
// the policy holds it
func (r *PolicyVersionRepo) ClearCurrentVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) error {
	query := `
		UPDATE policy_versions
		SET is_current = ?, updated_at = ?
		WHERE org_policy_uuid = ? AND is_current = ?
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query), false, time.Now(), orgPolicyID, true)
	return err
}

// SetCurrentVersionTx marks one version as the policy's current version
func (r *PolicyVersionRepo) SetCurrentVersionTx(ctx context.Context, tx *sql.Tx, versionId string) error {
	query := `
		UPDATE policy_versions
		SET is_current = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query), true, time.Now(), versionId)
	return err
}

// SetVersionApprovedByTx stamps the approving employee onto a version
func (r *PolicyVersionRepo) SetVersionApprovedByTx(ctx context.Context, tx *sql.Tx, versionId, approvedBy string) error {
	query := `
		UPDATE policy_versions
		SET approved_by = ?, updated_at = ?
		WHERE uuid = ?
	`
	_, err := tx.ExecContext(ctx, r.db.Rebind(query), approvedBy, time.Now(), versionId)
	return err
}
