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
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/database"
	"policy-registry/src/internal/diff"
	"policy-registry/src/internal/dto"
	"policy-registry/src/internal/metrics"
	"policy-registry/src/internal/model"
	"policy-registry/src/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// expiryDateLayout is the wire format for the optional expired_at field.
const expiryDateLayout = "2006-01-02"

// checkpoint_source values echoed by CreateInitialVersion.
const (
	checkpointSourceProvided = "provided_html_content"
	checkpointSourceTemplate = "current_template"
)

// PolicyService orchestrates the version lifecycle: initialising policies
// from templates, committing versions with their deltas and checkpoints, and
// serving reconstructed content. All writes that touch a policy's version
// sequence run inside a transaction holding the OrgPolicy row lock, so
// concurrent writers serialize per policy.
type PolicyService struct {
	db            *database.DB
	orgRepo       repository.OrganizationRepository
	employeeRepo  repository.EmployeeRepository
	templateRepo  repository.PolicyTemplateRepository
	orgPolicyRepo repository.OrgPolicyRepository
	versionRepo   repository.PolicyVersionRepository
	approverRepo  repository.PolicyApproverRepository
	generator     *GeneratorService
	reconstructor *ReconstructService
	renderer      *RenderService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewPolicyService creates a new policy service
func NewPolicyService(db *database.DB, orgRepo repository.OrganizationRepository,
	employeeRepo repository.EmployeeRepository, templateRepo repository.PolicyTemplateRepository,
	orgPolicyRepo repository.OrgPolicyRepository, versionRepo repository.PolicyVersionRepository,
	approverRepo repository.PolicyApproverRepository, generator *GeneratorService,
	reconstructor *ReconstructService, renderer *RenderService, m *metrics.Metrics,
	logger *zap.Logger) *PolicyService {
	return &PolicyService{
		db:            db,
		orgRepo:       orgRepo,
		employeeRepo:  employeeRepo,
		templateRepo:  templateRepo,
		orgPolicyRepo: orgPolicyRepo,
		versionRepo:   versionRepo,
		approverRepo:  approverRepo,
		generator:     generator,
		reconstructor: reconstructor,
		renderer:      renderer,
		metrics:       m,
		logger:        logger,
	}
}

// Initialise creates or refreshes an organization's policy from a template.
// The template HTML is formatted through the generation service before any
// row is written, so an upstream failure leaves no trace. The operation is
// idempotent per (organization, title): repeat calls overwrite the generated
// content and echo created=false.
func (s *PolicyService) Initialise(ctx context.Context, req *dto.PolicyInitialiseRequest) (*dto.PolicyInitialiseResponse, error) {
	org, err := s.orgRepo.GetOrganizationByUUID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, constants.ErrOrganizationNotFound
	}

	template, err := s.templateRepo.GetPolicyTemplateByUUID(ctx, req.PolicyTemplateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, constants.ErrPolicyTemplateNotFound
	}
	if strings.TrimSpace(template.Title) == "" {
		return nil, constants.ErrTemplateTitleEmpty
	}

	formatted, err := s.generator.FormatPolicyHTML(ctx, template.TemplateHTML, template.Title, req.Department, req.Category, org)
	if err != nil {
		return nil, err
	}

	assignments := req.WorkforceAssignment
	if len(assignments) == 0 {
		assignments = json.RawMessage("[]")
	}
	workforceJSON, err := wrapWorkforceAssignments(assignments)
	if err != nil {
		return nil, err
	}

	policy, created, err := s.orgPolicyRepo.GetOrCreateOrgPolicy(ctx, org.ID, template.Title, &model.OrgPolicyDefaults{
		PolicyType:           constants.PolicyTypeExistingPolicy,
		CurrentTemplateHTML:  formatted,
		Department:           req.Department,
		Category:             req.Category,
		WorkforceAssignments: workforceJSON,
	})
	if err != nil {
		return nil, err
	}

	version := req.Version
	if version == "" {
		version = "1"
	}

	s.logger.Info("Policy initialised",
		zap.String("orgPolicyId", policy.ID),
		zap.String("organizationId", org.ID),
		zap.String("title", template.Title),
		zap.Bool("created", created))

	return &dto.PolicyInitialiseResponse{
		Message:              "Policy initialized successfully",
		Status:               constants.ResponseStatusSuccess,
		OrgPolicyID:          policy.ID,
		Created:              created,
		Title:                template.Title,
		Version:              version,
		WorkforceAssignments: assignments,
	}, nil
}

// CreateInitialVersion commits version "1.0" of an initialised policy. The
// checkpoint holds the caller's HTML when provided and the generated
// template otherwise; the delta is computed from the empty string so the
// first version reconstructs standalone.
func (s *PolicyService) CreateInitialVersion(ctx context.Context, req *dto.PolicyCreateInitialVersionRequest) (*dto.PolicyCreateInitialVersionResponse, error) {
	if req.Approver != "" {
		employee, err := s.employeeRepo.GetEmployeeByUUID(ctx, req.Approver)
		if err != nil {
			return nil, err
		}
		if employee == nil {
			return nil, constants.ErrApproverNotFound
		}
	}

	var (
		policy     *model.OrgPolicy
		versionRow *model.PolicyVersion
		source     string
		delta      diff.Delta
	)
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		policy, err = s.orgPolicyRepo.LockOrgPolicyTx(ctx, tx, req.OrgPolicyID)
		if err != nil {
			return err
		}
		if policy == nil {
			return constants.ErrOrgPolicyNotFound
		}

		existing, err := s.versionRepo.CountVersionsTx(ctx, tx, policy.ID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return constants.ErrDuplicateVersion
		}

		checkpoint := policy.CurrentTemplateHTML
		source = checkpointSourceTemplate
		if req.HTMLContent != nil {
			checkpoint = *req.HTMLContent
			source = checkpointSourceProvided
		}

		delta = diff.Compute("", checkpoint)
		deltaJSON, err := json.Marshal(delta)
		if err != nil {
			return err
		}

		versionRow = &model.PolicyVersion{
			ID:                 uuid.New().String(),
			OrgPolicyID:        policy.ID,
			Version:            constants.InitialVersion,
			Status:             constants.VersionStatusDraft,
			DiffData:           deltaJSON,
			CheckpointTemplate: checkpoint,
		}
		if err := s.versionRepo.CreatePolicyVersionTx(ctx, tx, versionRow); err != nil {
			return err
		}

		if req.Approver != "" {
			return s.approverRepo.CreatePolicyApproverTx(ctx, tx, &model.PolicyApprover{
				ID:              uuid.New().String(),
				PolicyVersionID: versionRow.ID,
				ApproverID:      req.Approver,
				Status:          constants.ApproverStatusPending,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.VersionsCreatedTotal.WithLabelValues("true").Inc()
	s.reconstructor.InvalidateLatest(ctx, policy.ID)

	s.logger.Info("Initial policy version created",
		zap.String("orgPolicyId", policy.ID),
		zap.String("policyVersionId", versionRow.ID),
		zap.String("checkpointSource", source))

	return &dto.PolicyCreateInitialVersionResponse{
		Message:          "Initialized policy version created successfully",
		Status:           constants.ResponseStatusSuccess,
		OrgPolicyID:      policy.ID,
		PolicyVersionID:  versionRow.ID,
		VersionNumber:    constants.InitialVersion,
		CheckpointSource: source,
		ChangesCount:     len(delta.Changes),
		Approver:         req.Approver,
	}, nil
}

// Update commits a new version of a policy. The version number, the
// position-driven checkpoint decision and the delta against the latest
// committed HTML are all derived inside the transaction holding the policy
// row lock, so concurrent updates serialize and cannot collide on either
// position or version number.
func (s *PolicyService) Update(ctx context.Context, req *dto.PolicyUpdateRequest) (*dto.PolicyUpdateResponse, error) {
	precheck, err := s.orgPolicyRepo.GetOrgPolicyByUUID(ctx, req.OrgPolicyID)
	if err != nil {
		return nil, err
	}
	if precheck == nil {
		return nil, constants.ErrOrgPolicyNotFound
	}

	employee, err := s.employeeRepo.GetEmployeeByUUID(ctx, req.Approver)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, constants.ErrApproverNotFound
	}

	expiredAt, err := parseExpiryDate(req.ExpiredAt)
	if err != nil {
		return nil, err
	}

	workforceJSON, err := wrapWorkforceAssignments(req.WorkforceAssignment)
	if err != nil {
		return nil, err
	}

	var (
		versionRow   *model.PolicyVersion
		position     int
		isCheckpoint bool
		delta        diff.Delta
	)
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		policy, err := s.orgPolicyRepo.LockOrgPolicyTx(ctx, tx, req.OrgPolicyID)
		if err != nil {
			return err
		}
		if policy == nil {
			return constants.ErrOrgPolicyNotFound
		}

		versions, err := s.versionRepo.ListVersionsTx(ctx, tx, policy.ID)
		if err != nil {
			return err
		}
		position = len(versions) + 1

		var last *model.PolicyVersion
		oldHTML := ""
		if len(versions) > 0 {
			last = versions[len(versions)-1]
			oldHTML, err = s.reconstructor.replay(versions, last.Version)
			if err != nil {
				return err
			}
		}

		number := nextVersionNumber(req.Version, last, time.Now())
		duplicate, err := s.versionRepo.GetVersionByNumberTx(ctx, tx, policy.ID, number)
		if err != nil {
			return err
		}
		if duplicate != nil {
			return constants.ErrDuplicateVersion
		}

		delta = diff.Compute(oldHTML, req.HTMLContent)
		deltaJSON, err := json.Marshal(delta)
		if err != nil {
			return err
		}

		isCheckpoint = isCheckpointPosition(position)
		checkpointHTML := ""
		if isCheckpoint {
			checkpointHTML = req.HTMLContent
		}

		versionRow = &model.PolicyVersion{
			ID:                 uuid.New().String(),
			OrgPolicyID:        policy.ID,
			Version:            number,
			Status:             constants.VersionStatusDraft,
			DiffData:           deltaJSON,
			CheckpointTemplate: checkpointHTML,
			ExpiredAt:          expiredAt,
		}
		if err := s.versionRepo.CreatePolicyVersionTx(ctx, tx, versionRow); err != nil {
			return err
		}

		if err := s.orgPolicyRepo.UpdateOrgPolicyContentTx(ctx, tx, policy.ID, req.HTMLContent, workforceJSON); err != nil {
			return err
		}

		return s.approverRepo.CreatePolicyApproverTx(ctx, tx, &model.PolicyApprover{
			ID:              uuid.New().String(),
			PolicyVersionID: versionRow.ID,
			ApproverID:      req.Approver,
			Status:          constants.ApproverStatusPending,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.VersionsCreatedTotal.WithLabelValues(strconv.FormatBool(isCheckpoint)).Inc()
	s.reconstructor.InvalidateLatest(ctx, req.OrgPolicyID)

	s.logger.Info("Policy version committed",
		zap.String("orgPolicyId", req.OrgPolicyID),
		zap.String("policyVersionId", versionRow.ID),
		zap.String("version", versionRow.Version),
		zap.Int("position", position),
		zap.Bool("isCheckpoint", isCheckpoint))

	return &dto.PolicyUpdateResponse{
		Message:         "Policy updated successfully",
		Status:          constants.ResponseStatusSuccess,
		OrgPolicyID:     req.OrgPolicyID,
		PolicyVersionID: versionRow.ID,
		VersionNumber:   versionRow.Version,
		VersionPosition: position,
		IsCheckpoint:    isCheckpoint,
		CheckpointSaved: versionRow.CheckpointTemplate != "",
		ChangesCount:    len(delta.Changes),
	}, nil
}

// wrapWorkforceAssignments serializes the opaque assignment list into the
// stored {"assignments": [...]} envelope.
func wrapWorkforceAssignments(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("[]")
	}
	wrapped, err := json.Marshal(struct {
		Assignments json.RawMessage `json:"assignments"`
	}{Assignments: raw})
	if err != nil {
		return "", err
	}
	return string(wrapped), nil
}

// parseExpiryDate parses the optional expired_at request field. The empty
// string means no expiry.
func parseExpiryDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(expiryDateLayout, value)
	if err != nil {
		return nil, constants.ErrInvalidExpiryDate
	}
	return &t, nil
}
