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
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"policy-registry/src/config"
	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/diff"
	"policy-registry/src/internal/dto"
	"policy-registry/src/internal/metrics"
	"policy-registry/src/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
)

type stubGeneratorClient struct {
	html      string
	err       error
	gotPrompt string
}

func (s *stubGeneratorClient) Generate(ctx context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.html, s.err
}

type stubRenderClient struct {
	pdf     []byte
	err     error
	gotHTML string
}

func (s *stubRenderClient) Render(ctx context.Context, html string) ([]byte, error) {
	s.gotHTML = html
	return s.pdf, s.err
}

// policyMocks bundles every collaborator of PolicyService so tests configure
// only what they care about.
type policyMocks struct {
	orgs        *mockOrganizationRepo
	employees   *mockEmployeeRepo
	templates   *mockPolicyTemplateRepo
	orgPolicies *mockOrgPolicyRepo
	versions    *mockVersionRepo
	approvers   *mockApproverRepo
	genClient   *stubGeneratorClient
	renClient   *stubRenderClient
	metrics     *metrics.Metrics
	sql         sqlmock.Sqlmock
}

func newPolicyMocks() *policyMocks {
	return &policyMocks{
		orgs:        &mockOrganizationRepo{},
		employees:   &mockEmployeeRepo{},
		templates:   &mockPolicyTemplateRepo{},
		orgPolicies: &mockOrgPolicyRepo{},
		versions:    &mockVersionRepo{},
		approvers:   &mockApproverRepo{},
		genClient:   &stubGeneratorClient{},
		renClient:   &stubRenderClient{},
		metrics:     metrics.New(),
	}
}

func newTestPolicyService(t *testing.T, m *policyMocks) *PolicyService {
	t.Helper()
	db, sqlMock := newMockTxDB(t)
	m.sql = sqlMock
	logger := zap.NewNop()
	branding := config.Branding{CompanyName: "Your Company", ParentLogoURL: "https://platform.example/logo.png"}
	gen := NewGeneratorService(m.genClient, branding, m.metrics, logger)
	rec := NewReconstructService(m.versions, nil, m.metrics, logger)
	ren := NewRenderService(m.renClient, branding, logger)
	return NewPolicyService(db, m.orgs, m.employees, m.templates, m.orgPolicies,
		m.versions, m.approvers, gen, rec, ren, m.metrics, logger)
}

func TestInitialise(t *testing.T) {
	org := &model.Organization{ID: "org-1", Name: "Acme", LightLogo: "https://acme.example/light.png"}
	template := &model.PolicyTemplate{ID: "tpl-1", Title: "Acceptable Use Policy", TemplateHTML: "<h1>AUP</h1>"}

	tests := []struct {
		name        string
		setup       func(m *policyMocks)
		req         *dto.PolicyInitialiseRequest
		wantErr     error
		wantCreated bool
		wantVersion string
	}{
		{
			name: "creates policy from template",
			setup: func(m *policyMocks) {
				m.orgs.org = org
				m.templates.template = template
				m.genClient.html = "<h1>Acceptable Use Policy</h1>"
				m.orgPolicies.policy = &model.OrgPolicy{ID: "op-1", Title: template.Title}
				m.orgPolicies.createdFlag = true
			},
			req: &dto.PolicyInitialiseRequest{
				OrganizationID:      "org-1",
				PolicyTemplateID:    "tpl-1",
				Department:          "Engineering",
				Category:            "Security",
				WorkforceAssignment: json.RawMessage(`["team-a"]`),
			},
			wantCreated: true,
			wantVersion: "1",
		},
		{
			name: "refresh echoes created false and the requested version",
			setup: func(m *policyMocks) {
				m.orgs.org = org
				m.templates.template = template
				m.genClient.html = "<h1>Acceptable Use Policy</h1>"
				m.orgPolicies.policy = &model.OrgPolicy{ID: "op-1", Title: template.Title}
				m.orgPolicies.createdFlag = false
			},
			req: &dto.PolicyInitialiseRequest{
				OrganizationID:   "org-1",
				PolicyTemplateID: "tpl-1",
				Version:          "4",
			},
			wantCreated: false,
			wantVersion: "4",
		},
		{
			name:    "unknown organization",
			setup:   func(m *policyMocks) {},
			req:     &dto.PolicyInitialiseRequest{OrganizationID: "nope", PolicyTemplateID: "tpl-1"},
			wantErr: constants.ErrOrganizationNotFound,
		},
		{
			name: "unknown template",
			setup: func(m *policyMocks) {
				m.orgs.org = org
			},
			req:     &dto.PolicyInitialiseRequest{OrganizationID: "org-1", PolicyTemplateID: "nope"},
			wantErr: constants.ErrPolicyTemplateNotFound,
		},
		{
			name: "template without title",
			setup: func(m *policyMocks) {
				m.orgs.org = org
				m.templates.template = &model.PolicyTemplate{ID: "tpl-2", Title: "   "}
			},
			req:     &dto.PolicyInitialiseRequest{OrganizationID: "org-1", PolicyTemplateID: "tpl-2"},
			wantErr: constants.ErrTemplateTitleEmpty,
		},
		{
			name: "generator failure aborts before any write",
			setup: func(m *policyMocks) {
				m.orgs.org = org
				m.templates.template = template
				m.genClient.err = errors.New("upstream exploded")
			},
			req:     &dto.PolicyInitialiseRequest{OrganizationID: "org-1", PolicyTemplateID: "tpl-1"},
			wantErr: constants.ErrUpstreamGenerator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPolicyMocks()
			tt.setup(m)
			svc := newTestPolicyService(t, m)

			resp, err := svc.Initialise(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Initialise error = %v, want %v", err, tt.wantErr)
				}
				if m.orgPolicies.gotDefaults != nil {
					t.Error("get-or-create ran despite earlier failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Initialise error: %v", err)
			}
			if resp.Created != tt.wantCreated {
				t.Errorf("Created = %v, want %v", resp.Created, tt.wantCreated)
			}
			if resp.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", resp.Version, tt.wantVersion)
			}
			if resp.Title != template.Title {
				t.Errorf("Title = %q, want %q", resp.Title, template.Title)
			}
			if m.orgPolicies.gotDefaults.PolicyType != constants.PolicyTypeExistingPolicy {
				t.Errorf("PolicyType = %q", m.orgPolicies.gotDefaults.PolicyType)
			}
			if m.orgPolicies.gotDefaults.CurrentTemplateHTML != m.genClient.html {
				t.Errorf("stored HTML = %q, want generated output", m.orgPolicies.gotDefaults.CurrentTemplateHTML)
			}
			if !strings.Contains(m.genClient.gotPrompt, template.Title) {
				t.Error("prompt does not carry the template title")
			}
			if !strings.Contains(m.genClient.gotPrompt, org.Name) {
				t.Error("prompt does not carry the organization name")
			}
		})
	}
}

func TestInitialiseWrapsWorkforceAssignments(t *testing.T) {
	m := newPolicyMocks()
	m.orgs.org = &model.Organization{ID: "org-1", Name: "Acme"}
	m.templates.template = &model.PolicyTemplate{ID: "tpl-1", Title: "AUP", TemplateHTML: "<h1>AUP</h1>"}
	m.genClient.html = "<h1>AUP</h1>"
	m.orgPolicies.policy = &model.OrgPolicy{ID: "op-1", Title: "AUP"}
	svc := newTestPolicyService(t, m)

	_, err := svc.Initialise(context.Background(), &dto.PolicyInitialiseRequest{
		OrganizationID:      "org-1",
		PolicyTemplateID:    "tpl-1",
		WorkforceAssignment: json.RawMessage(`[{"group": "all"}]`),
	})
	if err != nil {
		t.Fatalf("Initialise error: %v", err)
	}

	var stored struct {
		Assignments []map[string]string `json:"assignments"`
	}
	if err := json.Unmarshal([]byte(m.orgPolicies.gotDefaults.WorkforceAssignments), &stored); err != nil {
		t.Fatalf("stored assignments are not valid JSON: %v", err)
	}
	if len(stored.Assignments) != 1 || stored.Assignments[0]["group"] != "all" {
		t.Errorf("stored assignments = %q", m.orgPolicies.gotDefaults.WorkforceAssignments)
	}
}

func TestCreateInitialVersion(t *testing.T) {
	policy := &model.OrgPolicy{ID: "op-1", Title: "AUP", CurrentTemplateHTML: "<h1>generated</h1>"}
	provided := "<h1>edited</h1>"

	tests := []struct {
		name           string
		setup          func(m *policyMocks)
		req            *dto.PolicyCreateInitialVersionRequest
		wantErr        error
		wantTx         bool
		wantCommit     bool
		wantCheckpoint string
		wantSource     string
		wantApprovers  int
	}{
		{
			name: "caller HTML wins over the generated template",
			setup: func(m *policyMocks) {
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = &model.Employee{ID: "emp-1"}
			},
			req:            &dto.PolicyCreateInitialVersionRequest{OrgPolicyID: "op-1", HTMLContent: &provided, Approver: "emp-1"},
			wantTx:         true,
			wantCommit:     true,
			wantCheckpoint: provided,
			wantSource:     checkpointSourceProvided,
			wantApprovers:  1,
		},
		{
			name: "falls back to the generated template",
			setup: func(m *policyMocks) {
				m.orgPolicies.lockPolicy = policy
			},
			req:            &dto.PolicyCreateInitialVersionRequest{OrgPolicyID: "op-1"},
			wantTx:         true,
			wantCommit:     true,
			wantCheckpoint: policy.CurrentTemplateHTML,
			wantSource:     checkpointSourceTemplate,
			wantApprovers:  0,
		},
		{
			name:    "unknown approver fails before the transaction",
			setup:   func(m *policyMocks) {},
			req:     &dto.PolicyCreateInitialVersionRequest{OrgPolicyID: "op-1", Approver: "ghost"},
			wantErr: constants.ErrApproverNotFound,
		},
		{
			name: "unknown policy",
			setup: func(m *policyMocks) {
				m.orgPolicies.lockPolicy = nil
			},
			req:     &dto.PolicyCreateInitialVersionRequest{OrgPolicyID: "nope"},
			wantErr: constants.ErrOrgPolicyNotFound,
			wantTx:  true,
		},
		{
			name: "existing versions are rejected",
			setup: func(m *policyMocks) {
				m.orgPolicies.lockPolicy = policy
				m.versions.countResult = 1
			},
			req:     &dto.PolicyCreateInitialVersionRequest{OrgPolicyID: "op-1"},
			wantErr: constants.ErrDuplicateVersion,
			wantTx:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPolicyMocks()
			tt.setup(m)
			svc := newTestPolicyService(t, m)
			if tt.wantTx {
				m.sql.ExpectBegin()
				if tt.wantCommit {
					m.sql.ExpectCommit()
				} else {
					m.sql.ExpectRollback()
				}
			}

			resp, err := svc.CreateInitialVersion(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateInitialVersion error = %v, want %v", err, tt.wantErr)
				}
				if len(m.versions.created) != 0 {
					t.Error("version row written despite failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateInitialVersion error: %v", err)
			}

			if resp.VersionNumber != constants.InitialVersion {
				t.Errorf("VersionNumber = %q, want %q", resp.VersionNumber, constants.InitialVersion)
			}
			if resp.CheckpointSource != tt.wantSource {
				t.Errorf("CheckpointSource = %q, want %q", resp.CheckpointSource, tt.wantSource)
			}
			if len(m.versions.created) != 1 {
				t.Fatalf("created %d version rows, want 1", len(m.versions.created))
			}
			row := m.versions.created[0]
			if row.CheckpointTemplate != tt.wantCheckpoint {
				t.Errorf("CheckpointTemplate = %q, want %q", row.CheckpointTemplate, tt.wantCheckpoint)
			}
			if row.Status != constants.VersionStatusDraft {
				t.Errorf("Status = %q, want draft", row.Status)
			}
			got, applyErr := diff.Apply("", row.DiffData)
			if applyErr != nil || got != tt.wantCheckpoint {
				t.Errorf("stored delta reconstructs %q (err %v), want %q", got, applyErr, tt.wantCheckpoint)
			}
			if len(m.approvers.created) != tt.wantApprovers {
				t.Errorf("created %d approver rows, want %d", len(m.approvers.created), tt.wantApprovers)
			}
			if tt.wantApprovers == 1 && m.approvers.created[0].Status != constants.ApproverStatusPending {
				t.Errorf("approver status = %q, want pending", m.approvers.created[0].Status)
			}
			if err := m.sql.ExpectationsWereMet(); err != nil {
				t.Errorf("transaction expectations: %v", err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	policy := &model.OrgPolicy{ID: "op-1", Title: "AUP", CurrentTemplateHTML: "<h1>v1</h1>"}
	baseHTML := "<h1>v1</h1>"
	newHTML := "<h1>v1</h1>\n<p>more</p>"
	employee := &model.Employee{ID: "emp-1"}

	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	history := func(n int) []*model.PolicyVersion {
		rows := make([]*model.PolicyVersion, 0, n)
		html := ""
		for i := 0; i < n; i++ {
			next := baseHTML + strings.Repeat("\n<p>x</p>", i)
			checkpoint := ""
			if isCheckpointPosition(i + 1) {
				checkpoint = next
			}
			rows = append(rows, &model.PolicyVersion{
				ID:                 "ver-" + string(rune('a'+i)),
				OrgPolicyID:        "op-1",
				Version:            "1." + string(rune('0'+i)),
				Status:             constants.VersionStatusDraft,
				DiffData:           deltaJSON(t, html, next),
				CheckpointTemplate: checkpoint,
			})
			html = next
		}
		return rows
	}

	tests := []struct {
		name           string
		setup          func(m *policyMocks)
		req            *dto.PolicyUpdateRequest
		wantErr        error
		wantTx         bool
		wantCommit     bool
		wantNumber     string
		wantPosition   int
		wantCheckpoint bool
	}{
		{
			name: "minor bump against the latest HTML",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = employee
				m.versions.listResult = history(1)
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`["everyone"]`),
				Approver:            "emp-1",
			},
			wantTx:       true,
			wantCommit:   true,
			wantNumber:   "1.1",
			wantPosition: 2,
		},
		{
			name: "caller version forces a major bump",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = employee
				m.versions.listResult = history(2)
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
				Version:             "2.5",
			},
			wantTx:       true,
			wantCommit:   true,
			wantNumber:   "3.0",
			wantPosition: 3,
		},
		{
			name: "expired latest version forces a major bump",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = employee
				rows := history(1)
				rows[0].ExpiredAt = &yesterday
				m.versions.listResult = rows
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
			},
			wantTx:       true,
			wantCommit:   true,
			wantNumber:   "2.0",
			wantPosition: 2,
		},
		{
			name: "eleventh position stores a checkpoint",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = employee
				m.versions.listResult = history(10)
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
			},
			wantTx:         true,
			wantCommit:     true,
			wantNumber:     "1.10",
			wantPosition:   11,
			wantCheckpoint: true,
		},
		{
			name: "first committed version via update is a checkpoint",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = employee
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
			},
			wantTx:         true,
			wantCommit:     true,
			wantNumber:     "1.0",
			wantPosition:   1,
			wantCheckpoint: true,
		},
		{
			name: "duplicate version number is rejected",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.orgPolicies.lockPolicy = policy
				m.employees.employee = employee
				rows := history(1)
				m.versions.listResult = rows
				m.versions.byNumber = map[string]*model.PolicyVersion{"1.1": rows[0]}
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
			},
			wantErr: constants.ErrDuplicateVersion,
			wantTx:  true,
		},
		{
			name:  "unknown policy fails before the transaction",
			setup: func(m *policyMocks) {},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "nope",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
			},
			wantErr: constants.ErrOrgPolicyNotFound,
		},
		{
			name: "unknown approver fails before the transaction",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "ghost",
			},
			wantErr: constants.ErrApproverNotFound,
		},
		{
			name: "malformed expiry date",
			setup: func(m *policyMocks) {
				m.orgPolicies.policy = policy
				m.employees.employee = employee
			},
			req: &dto.PolicyUpdateRequest{
				OrgPolicyID:         "op-1",
				OrganizationID:      "org-1",
				HTMLContent:         newHTML,
				WorkforceAssignment: json.RawMessage(`[]`),
				Approver:            "emp-1",
				ExpiredAt:           "next tuesday",
			},
			wantErr: constants.ErrInvalidExpiryDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPolicyMocks()
			tt.setup(m)
			svc := newTestPolicyService(t, m)
			if tt.wantTx {
				m.sql.ExpectBegin()
				if tt.wantCommit {
					m.sql.ExpectCommit()
				} else {
					m.sql.ExpectRollback()
				}
			}

			resp, err := svc.Update(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update error = %v, want %v", err, tt.wantErr)
				}
				if len(m.versions.created) != 0 {
					t.Error("version row written despite failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Update error: %v", err)
			}

			if resp.VersionNumber != tt.wantNumber {
				t.Errorf("VersionNumber = %q, want %q", resp.VersionNumber, tt.wantNumber)
			}
			if resp.VersionPosition != tt.wantPosition {
				t.Errorf("VersionPosition = %d, want %d", resp.VersionPosition, tt.wantPosition)
			}
			if resp.IsCheckpoint != tt.wantCheckpoint {
				t.Errorf("IsCheckpoint = %v, want %v", resp.IsCheckpoint, tt.wantCheckpoint)
			}
			if resp.CheckpointSaved != tt.wantCheckpoint {
				t.Errorf("CheckpointSaved = %v, want %v", resp.CheckpointSaved, tt.wantCheckpoint)
			}

			if len(m.versions.created) != 1 {
				t.Fatalf("created %d version rows, want 1", len(m.versions.created))
			}
			row := m.versions.created[0]
			if row.Status != constants.VersionStatusDraft {
				t.Errorf("Status = %q, want draft", row.Status)
			}
			if tt.wantCheckpoint && row.CheckpointTemplate != tt.req.HTMLContent {
				t.Errorf("checkpoint HTML = %q, want the submitted HTML", row.CheckpointTemplate)
			}
			if m.orgPolicies.updatedHTML != tt.req.HTMLContent {
				t.Errorf("policy HTML mirror = %q, want the submitted HTML", m.orgPolicies.updatedHTML)
			}
			if len(m.approvers.created) != 1 {
				t.Fatalf("created %d approver rows, want 1", len(m.approvers.created))
			}
			if err := m.sql.ExpectationsWereMet(); err != nil {
				t.Errorf("transaction expectations: %v", err)
			}
		})
	}
}

// TestUpdateDeltaReconstructs commits an update and verifies the stored
// delta rebuilds the submitted HTML from the previous version's HTML.
func TestUpdateDeltaReconstructs(t *testing.T) {
	baseHTML := "<h1>v1</h1>\n<p>alpha</p>"
	newHTML := "<h1>v1</h1>\n<p>beta</p>\n<p>gamma</p>"

	m := newPolicyMocks()
	policy := &model.OrgPolicy{ID: "op-1", Title: "AUP"}
	m.orgPolicies.policy = policy
	m.orgPolicies.lockPolicy = policy
	m.employees.employee = &model.Employee{ID: "emp-1"}
	m.versions.listResult = []*model.PolicyVersion{
		{ID: "ver-1", OrgPolicyID: "op-1", Version: "1.0", CheckpointTemplate: baseHTML, DiffData: deltaJSON(t, "", baseHTML)},
	}
	svc := newTestPolicyService(t, m)
	m.sql.ExpectBegin()
	m.sql.ExpectCommit()

	resp, err := svc.Update(context.Background(), &dto.PolicyUpdateRequest{
		OrgPolicyID:         "op-1",
		OrganizationID:      "org-1",
		HTMLContent:         newHTML,
		WorkforceAssignment: json.RawMessage(`[]`),
		Approver:            "emp-1",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	row := m.versions.created[0]
	rebuilt, err := diff.Apply(baseHTML, row.DiffData)
	if err != nil {
		t.Fatalf("stored delta does not apply: %v", err)
	}
	if rebuilt != newHTML {
		t.Errorf("delta rebuilds %q, want %q", rebuilt, newHTML)
	}
	if resp.ChangesCount == 0 {
		t.Error("ChangesCount = 0, want at least one change")
	}
}

func TestUpdateStampsExpiryDate(t *testing.T) {
	m := newPolicyMocks()
	policy := &model.OrgPolicy{ID: "op-1", Title: "AUP"}
	m.orgPolicies.policy = policy
	m.orgPolicies.lockPolicy = policy
	m.employees.employee = &model.Employee{ID: "emp-1"}
	svc := newTestPolicyService(t, m)
	m.sql.ExpectBegin()
	m.sql.ExpectCommit()

	_, err := svc.Update(context.Background(), &dto.PolicyUpdateRequest{
		OrgPolicyID:         "op-1",
		OrganizationID:      "org-1",
		HTMLContent:         "<h1>x</h1>",
		WorkforceAssignment: json.RawMessage(`[]`),
		Approver:            "emp-1",
		ExpiredAt:           "2027-03-01",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	row := m.versions.created[0]
	if row.ExpiredAt == nil {
		t.Fatal("ExpiredAt not stamped")
	}
	if got := row.ExpiredAt.Format("2006-01-02"); got != "2027-03-01" {
		t.Errorf("ExpiredAt = %s, want 2027-03-01", got)
	}
}
