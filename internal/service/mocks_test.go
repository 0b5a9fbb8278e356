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
	"testing"
	"time"

	"policy-registry/src/internal/database"
	"policy-registry/src/internal/model"
	"policy-registry/src/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockTxDB returns a database.DB whose transactions are driven by
// sqlmock. Repository calls are mocked at the interface level, so tests only
// declare Begin/Commit/Rollback expectations.
func newMockTxDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return database.New(sqlDB, "sqlite3"), mock
}

type mockOrganizationRepo struct {
	repository.OrganizationRepository // Embed interface for unimplemented methods

	org    *model.Organization
	getErr error
}

func (m *mockOrganizationRepo) GetOrganizationByUUID(ctx context.Context, uuid string) (*model.Organization, error) {
	return m.org, m.getErr
}

type mockEmployeeRepo struct {
	repository.EmployeeRepository

	employee *model.Employee
	getErr   error
}

func (m *mockEmployeeRepo) GetEmployeeByUUID(ctx context.Context, uuid string) (*model.Employee, error) {
	return m.employee, m.getErr
}

type mockPolicyTemplateRepo struct {
	repository.PolicyTemplateRepository

	template *model.PolicyTemplate
	getErr   error

	listResult []*model.PolicyTemplate
	listErr    error

	byTitle map[string]*model.PolicyTemplate

	created   []*model.PolicyTemplate
	createErr error
}

func (m *mockPolicyTemplateRepo) GetPolicyTemplateByUUID(ctx context.Context, uuid string) (*model.PolicyTemplate, error) {
	return m.template, m.getErr
}

func (m *mockPolicyTemplateRepo) GetPolicyTemplateByTitle(ctx context.Context, title string) (*model.PolicyTemplate, error) {
	return m.byTitle[title], nil
}

func (m *mockPolicyTemplateRepo) ListPolicyTemplates(ctx context.Context) ([]*model.PolicyTemplate, error) {
	return m.listResult, m.listErr
}

func (m *mockPolicyTemplateRepo) CreatePolicyTemplate(ctx context.Context, template *model.PolicyTemplate) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, template)
	return nil
}

type mockOrgPolicyRepo struct {
	repository.OrgPolicyRepository

	policy *model.OrgPolicy
	getErr error

	lockPolicy *model.OrgPolicy
	lockErr    error

	createdFlag     bool
	getOrCreateErr  error
	gotDefaults     *model.OrgPolicyDefaults
	gotTitle        string
	gotOrganization string

	listResult []*model.OrgPolicy
	listErr    error

	updatedHTML       string
	updatedAssignment string
	updateErr         error
}

func (m *mockOrgPolicyRepo) GetOrgPolicyByUUID(ctx context.Context, uuid string) (*model.OrgPolicy, error) {
	return m.policy, m.getErr
}

func (m *mockOrgPolicyRepo) GetOrCreateOrgPolicy(ctx context.Context, organizationID, title string, defaults *model.OrgPolicyDefaults) (*model.OrgPolicy, bool, error) {
	m.gotOrganization = organizationID
	m.gotTitle = title
	m.gotDefaults = defaults
	return m.policy, m.createdFlag, m.getOrCreateErr
}

func (m *mockOrgPolicyRepo) LockOrgPolicyTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.OrgPolicy, error) {
	return m.lockPolicy, m.lockErr
}

func (m *mockOrgPolicyRepo) UpdateOrgPolicyContentTx(ctx context.Context, tx *sql.Tx, uuid, templateHTML, workforceAssignments string) error {
	m.updatedHTML = templateHTML
	m.updatedAssignment = workforceAssignments
	return m.updateErr
}

func (m *mockOrgPolicyRepo) ListOrgPoliciesByOrganization(ctx context.Context, organizationID string) ([]*model.OrgPolicy, error) {
	return m.listResult, m.listErr
}

type mockVersionRepo struct {
	repository.PolicyVersionRepository

	listResult []*model.PolicyVersion
	listErr    error

	countResult int
	countErr    error

	latest    *model.PolicyVersion
	latestErr error

	byNumber    map[string]*model.PolicyVersion
	byNumberErr error

	created   []*model.PolicyVersion
	createErr error

	statusUpdates   []string
	clearedCurrent  bool
	setCurrentID    string
	approvedBy      string
	approvedVersion string
}

func (m *mockVersionRepo) ListVersionsByOrgPolicy(ctx context.Context, orgPolicyID string) ([]*model.PolicyVersion, error) {
	return m.listResult, m.listErr
}

func (m *mockVersionRepo) ListVersionsTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) ([]*model.PolicyVersion, error) {
	return m.listResult, m.listErr
}

func (m *mockVersionRepo) CountVersions(ctx context.Context, orgPolicyID string) (int, error) {
	return m.countResult, m.countErr
}

func (m *mockVersionRepo) CountVersionsTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) (int, error) {
	return m.countResult, m.countErr
}

func (m *mockVersionRepo) LatestVersion(ctx context.Context, orgPolicyID string) (*model.PolicyVersion, error) {
	return m.latest, m.latestErr
}

func (m *mockVersionRepo) LatestVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) (*model.PolicyVersion, error) {
	return m.latest, m.latestErr
}

func (m *mockVersionRepo) FirstVersion(ctx context.Context, orgPolicyID string) (*model.PolicyVersion, error) {
	if len(m.listResult) == 0 {
		return nil, m.listErr
	}
	return m.listResult[0], m.listErr
}

func (m *mockVersionRepo) GetVersionByNumber(ctx context.Context, orgPolicyID, version string) (*model.PolicyVersion, error) {
	return m.byNumber[version], m.byNumberErr
}

func (m *mockVersionRepo) GetVersionByNumberTx(ctx context.Context, tx *sql.Tx, orgPolicyID, version string) (*model.PolicyVersion, error) {
	return m.byNumber[version], m.byNumberErr
}

func (m *mockVersionRepo) CreatePolicyVersionTx(ctx context.Context, tx *sql.Tx, version *model.PolicyVersion) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, version)
	return nil
}

func (m *mockVersionRepo) UpdateVersionStatusTx(ctx context.Context, tx *sql.Tx, uuid, status string, publishedAt *time.Time) error {
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockVersionRepo) ClearCurrentVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) error {
	m.clearedCurrent = true
	return nil
}

func (m *mockVersionRepo) SetCurrentVersionTx(ctx context.Context, tx *sql.Tx, uuid string) error {
	m.setCurrentID = uuid
	return nil
}

func (m *mockVersionRepo) SetVersionApprovedByTx(ctx context.Context, tx *sql.Tx, uuid, approvedBy string) error {
	m.approvedVersion = uuid
	m.approvedBy = approvedBy
	return nil
}

type mockApproverRepo struct {
	repository.PolicyApproverRepository

	created   []*model.PolicyApprover
	createErr error

	binding    *model.PolicyApprover
	bindingErr error

	updatedID        string
	updatedStatus    string
	updatedCondition string
	updateErr        error
}

func (m *mockApproverRepo) CreatePolicyApproverTx(ctx context.Context, tx *sql.Tx, approver *model.PolicyApprover) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, approver)
	return nil
}

func (m *mockApproverRepo) GetApproverByVersionAndEmployee(ctx context.Context, policyVersionID, approverID string) (*model.PolicyApprover, error) {
	return m.binding, m.bindingErr
}

func (m *mockApproverRepo) GetApproverByVersionAndEmployeeTx(ctx context.Context, tx *sql.Tx, policyVersionID, approverID string) (*model.PolicyApprover, error) {
	return m.binding, m.bindingErr
}

func (m *mockApproverRepo) UpdateApproverDecisionTx(ctx context.Context, tx *sql.Tx, uuid, status, condition string) error {
	m.updatedID = uuid
	m.updatedStatus = status
	m.updatedCondition = condition
	return m.updateErr
}
