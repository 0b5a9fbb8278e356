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
	"database/sql"
	"time"

	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/dto"
	"policy-registry/src/internal/model"

	"go.uber.org/zap"
)

// ChangeStatus moves a version through draft, in_review, published and
// archived. Re-applying the current status is an idempotent no-op apart from
// updated_at. Publishing additionally flips is_current to the published
// version and stamps published_at; the flip runs under the OrgPolicy row
// lock so exactly one version of a policy is current at any time.
func (s *PolicyService) ChangeStatus(ctx context.Context, req *dto.PolicyStatusRequest) (*dto.PolicyStatusResponse, error) {
	if !constants.ValidVersionStatuses[req.Status] {
		return nil, constants.ErrInvalidStatusTransition
	}

	var (
		row       *model.PolicyVersion
		previous  string
		isCurrent bool
	)
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		policy, err := s.orgPolicyRepo.LockOrgPolicyTx(ctx, tx, req.OrgPolicyID)
		if err != nil {
			return err
		}
		if policy == nil {
			return constants.ErrOrgPolicyNotFound
		}

		row, err = s.resolveVersionTx(ctx, tx, policy.ID, req.Version)
		if err != nil {
			return err
		}

		previous = row.Status
		isCurrent = row.IsCurrent
		if previous != req.Status && !statusTransitionAllowed(previous, req.Status) {
			return constants.ErrInvalidStatusTransition
		}

		var publishedAt *time.Time
		if req.Status == constants.VersionStatusPublished {
			now := time.Now()
			publishedAt = &now
			if err := s.versionRepo.ClearCurrentVersionTx(ctx, tx, policy.ID); err != nil {
				return err
			}
			if err := s.versionRepo.SetCurrentVersionTx(ctx, tx, row.ID); err != nil {
				return err
			}
			isCurrent = true
		}

		return s.versionRepo.UpdateVersionStatusTx(ctx, tx, row.ID, req.Status, publishedAt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Policy version status changed",
		zap.String("orgPolicyId", req.OrgPolicyID),
		zap.String("version", row.Version),
		zap.String("from", previous),
		zap.String("to", req.Status))

	return &dto.PolicyStatusResponse{
		Message:         "Policy version status updated successfully",
		Status:          constants.ResponseStatusSuccess,
		OrgPolicyID:     req.OrgPolicyID,
		PolicyVersionID: row.ID,
		Version:         row.Version,
		PreviousStatus:  previous,
		NewStatus:       req.Status,
		IsCurrent:       isCurrent,
	}, nil
}

// Approve records an approver's decision on a version. The employee must be
// bound to the version as an approver. A terminal decision sticks: repeating
// the same decision refreshes the condition note, switching a recorded
// decision is rejected. Approval also stamps approved_by onto the version.
func (s *PolicyService) Approve(ctx context.Context, req *dto.PolicyApproveRequest) (*dto.PolicyApproveResponse, error) {
	if req.Decision != constants.ApproverStatusApproved && req.Decision != constants.ApproverStatusRejected {
		return nil, constants.ErrInvalidApproverDecision
	}

	employee, err := s.employeeRepo.GetEmployeeByUUID(ctx, req.Approver)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, constants.ErrApproverNotFound
	}

	var row *model.PolicyVersion
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		policy, err := s.orgPolicyRepo.LockOrgPolicyTx(ctx, tx, req.OrgPolicyID)
		if err != nil {
			return err
		}
		if policy == nil {
			return constants.ErrOrgPolicyNotFound
		}

		row, err = s.resolveVersionTx(ctx, tx, policy.ID, req.Version)
		if err != nil {
			return err
		}

		binding, err := s.approverRepo.GetApproverByVersionAndEmployeeTx(ctx, tx, row.ID, req.Approver)
		if err != nil {
			return err
		}
		if binding == nil {
			return constants.ErrApproverNotAssigned
		}
		if binding.Status != constants.ApproverStatusPending && binding.Status != req.Decision {
			return constants.ErrApproverAlreadyDecided
		}

		if err := s.approverRepo.UpdateApproverDecisionTx(ctx, tx, binding.ID, req.Decision, req.Condition); err != nil {
			return err
		}

		if req.Decision == constants.ApproverStatusApproved {
			return s.versionRepo.SetVersionApprovedByTx(ctx, tx, row.ID, req.Approver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Approver decision recorded",
		zap.String("orgPolicyId", req.OrgPolicyID),
		zap.String("version", row.Version),
		zap.String("approver", req.Approver),
		zap.String("decision", req.Decision))

	return &dto.PolicyApproveResponse{
		Message:         "Approver decision recorded successfully",
		Status:          constants.ResponseStatusSuccess,
		OrgPolicyID:     req.OrgPolicyID,
		PolicyVersionID: row.ID,
		Version:         row.Version,
		Approver:        req.Approver,
		Decision:        req.Decision,
		Condition:       req.Condition,
	}, nil
}

// resolveVersionTx finds the version a request targets inside the caller's
// transaction: the named version when given, the latest committed version
// otherwise.
func (s *PolicyService) resolveVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID, version string) (*model.PolicyVersion, error) {
	if version == "" {
		row, err := s.versionRepo.LatestVersionTx(ctx, tx, orgPolicyID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, constants.ErrNoVersions
		}
		return row, nil
	}
	row, err := s.versionRepo.GetVersionByNumberTx(ctx, tx, orgPolicyID, version)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, constants.ErrVersionNotFound
	}
	return row, nil
}

// statusTransitionAllowed reports whether from may move to to.
func statusTransitionAllowed(from, to string) bool {
	for _, allowed := range constants.ValidStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
