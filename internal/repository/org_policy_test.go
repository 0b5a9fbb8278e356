/*
 *  Copyright (c) 2026, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
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
	"path/filepath"
	"testing"
	"time"

	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/database"
	"policy-registry/src/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a temporary SQLite database with the registry schema
// applied from the shipped DDL file.
func setupTestDB(t *testing.T) (*database.DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	db := database.New(sqlDB, "sqlite3")
	if err := db.InitSchema("../database/schema.sql"); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup
}

// createTestOrganization inserts an organization row
func createTestOrganization(t *testing.T, db *database.DB, orgUUID string) {
	t.Helper()

	repo := NewOrganizationRepo(db)
	err := repo.CreateOrganization(context.Background(), &model.Organization{
		ID:     orgUUID,
		Name:   "Test Organization",
		Domain: "test.example.com",
		Status: constants.OrganizationStatusActive,
	})
	if err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
}

// createTestEmployee inserts an employee row
func createTestEmployee(t *testing.T, db *database.DB, employeeUUID string) {
	t.Helper()

	repo := NewEmployeeRepo(db)
	err := repo.CreateEmployee(context.Background(), &model.Employee{
		ID:    employeeUUID,
		Name:  "Test Employee",
		Email: employeeUUID + "@test.example.com",
	})
	if err != nil {
		t.Fatalf("Failed to create test employee: %v", err)
	}
}

// createTestOrgPolicy inserts a policy through get-or-create and returns it
func createTestOrgPolicy(t *testing.T, db *database.DB, orgUUID, title string) *model.OrgPolicy {
	t.Helper()

	repo := NewOrgPolicyRepo(db)
	policy, _, err := repo.GetOrCreateOrgPolicy(context.Background(), orgUUID, title, &model.OrgPolicyDefaults{
		PolicyType:           constants.PolicyTypeOrgPolicy,
		CurrentTemplateHTML:  "<h1>" + title + "</h1>",
		WorkforceAssignments: `{"assignments": []}`,
	})
	if err != nil {
		t.Fatalf("Failed to create test org policy: %v", err)
	}
	return policy
}

func TestGetOrCreateOrgPolicy(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-001")
	repo := NewOrgPolicyRepo(db)
	ctx := context.Background()

	defaults := &model.OrgPolicyDefaults{
		PolicyType:           constants.PolicyTypeOrgPolicy,
		CurrentTemplateHTML:  "<h1>Remote Work Policy</h1>",
		Department:           "Human Resources",
		Category:             "Workplace",
		WorkforceAssignments: `{"assignments": ["all"]}`,
	}

	t.Run("Creates the policy on first call", func(t *testing.T) {
		policy, created, err := repo.GetOrCreateOrgPolicy(ctx, "org-001", "Remote Work Policy", defaults)
		if err != nil {
			t.Fatalf("GetOrCreateOrgPolicy failed: %v", err)
		}
		if !created {
			t.Error("expected created=true on first call")
		}
		if policy.ID == "" {
			t.Error("expected a generated policy ID")
		}
		if policy.OrganizationID != "org-001" || policy.Title != "Remote Work Policy" {
			t.Errorf("unexpected policy identity: %+v", policy)
		}
		if policy.CurrentTemplateHTML != defaults.CurrentTemplateHTML {
			t.Errorf("template HTML not applied: %q", policy.CurrentTemplateHTML)
		}
	})

	t.Run("Refreshes writable fields on second call", func(t *testing.T) {
		refreshed := &model.OrgPolicyDefaults{
			PolicyType:           constants.PolicyTypeExistingPolicy, // must be ignored for existing rows
			CurrentTemplateHTML:  "<h1>Remote Work Policy v2</h1>",
			Department:           "People Operations",
			Category:             "Workplace",
			WorkforceAssignments: `{"assignments": ["engineering"]}`,
		}

		first, _, err := repo.GetOrCreateOrgPolicy(ctx, "org-001", "Remote Work Policy", defaults)
		if err != nil {
			t.Fatalf("GetOrCreateOrgPolicy failed: %v", err)
		}

		second, created, err := repo.GetOrCreateOrgPolicy(ctx, "org-001", "Remote Work Policy", refreshed)
		if err != nil {
			t.Fatalf("GetOrCreateOrgPolicy failed: %v", err)
		}
		if created {
			t.Error("expected created=false for an existing policy")
		}
		if second.ID != first.ID {
			t.Errorf("policy ID changed across calls: %s != %s", second.ID, first.ID)
		}
		if second.CurrentTemplateHTML != refreshed.CurrentTemplateHTML {
			t.Errorf("template HTML not refreshed: %q", second.CurrentTemplateHTML)
		}
		if second.Department != "People Operations" {
			t.Errorf("department not refreshed: %q", second.Department)
		}
		if second.PolicyType != constants.PolicyTypeOrgPolicy {
			t.Errorf("policy_type must not change on refresh, got %q", second.PolicyType)
		}

		stored, err := repo.GetOrgPolicyByUUID(ctx, second.ID)
		if err != nil {
			t.Fatalf("GetOrgPolicyByUUID failed: %v", err)
		}
		if stored.WorkforceAssignments != `{"assignments": ["engineering"]}` {
			t.Errorf("workforce assignments not persisted: %q", stored.WorkforceAssignments)
		}
	})

	t.Run("Distinct titles create distinct policies", func(t *testing.T) {
		other, created, err := repo.GetOrCreateOrgPolicy(ctx, "org-001", "Data Retention Policy", defaults)
		if err != nil {
			t.Fatalf("GetOrCreateOrgPolicy failed: %v", err)
		}
		if !created {
			t.Error("expected created=true for a new title")
		}
		if other.Title != "Data Retention Policy" {
			t.Errorf("unexpected title: %q", other.Title)
		}
	})
}

func TestGetOrgPolicyByUUID_Missing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrgPolicyRepo(db)
	policy, err := repo.GetOrgPolicyByUUID(context.Background(), "no-such-policy")
	if err != nil {
		t.Fatalf("GetOrgPolicyByUUID failed: %v", err)
	}
	if policy != nil {
		t.Errorf("expected nil for a missing policy, got %+v", policy)
	}
}

func TestLockAndUpdateOrgPolicyTx(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-001")
	policy := createTestOrgPolicy(t, db, "org-001", "Incident Response Policy")

	repo := NewOrgPolicyRepo(db)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		locked, err := repo.LockOrgPolicyTx(ctx, tx, policy.ID)
		if err != nil {
			return err
		}
		if locked == nil || locked.ID != policy.ID {
			t.Fatalf("expected locked row for %s, got %+v", policy.ID, locked)
		}

		missing, err := repo.LockOrgPolicyTx(ctx, tx, "no-such-policy")
		if err != nil {
			return err
		}
		if missing != nil {
			t.Errorf("expected nil for a missing policy, got %+v", missing)
		}

		return repo.UpdateOrgPolicyContentTx(ctx, tx, policy.ID, "<h1>Updated</h1>", `{"assignments": ["security"]}`)
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	stored, err := repo.GetOrgPolicyByUUID(ctx, policy.ID)
	if err != nil {
		t.Fatalf("GetOrgPolicyByUUID failed: %v", err)
	}
	if stored.CurrentTemplateHTML != "<h1>Updated</h1>" {
		t.Errorf("template HTML not updated: %q", stored.CurrentTemplateHTML)
	}
	if stored.WorkforceAssignments != `{"assignments": ["security"]}` {
		t.Errorf("workforce assignments not updated: %q", stored.WorkforceAssignments)
	}
}

func TestListOrgPoliciesByOrganization(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestOrganization(t, db, "org-001")
	createTestOrganization(t, db, "org-002")

	createTestOrgPolicy(t, db, "org-001", "Acceptable Use Policy")
	time.Sleep(5 * time.Millisecond) // distinct created_at for ordering
	createTestOrgPolicy(t, db, "org-001", "Access Control Policy")
	createTestOrgPolicy(t, db, "org-002", "Acceptable Use Policy")

	repo := NewOrgPolicyRepo(db)
	policies, err := repo.ListOrgPoliciesByOrganization(context.Background(), "org-001")
	if err != nil {
		t.Fatalf("ListOrgPoliciesByOrganization failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(policies))
	}
	if policies[0].Title != "Access Control Policy" {
		t.Errorf("expected newest policy first, got %q", policies[0].Title)
	}

	empty, err := repo.ListOrgPoliciesByOrganization(context.Background(), "org-absent")
	if err != nil {
		t.Fatalf("ListOrgPoliciesByOrganization failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no policies for an unknown organization, got %d", len(empty))
	}
}

// TestGetOrCreateOrgPolicy_PostgresLocking verifies the postgres path takes
// the (organization_uuid, title) row lock before deciding to insert.
func TestGetOrCreateOrgPolicy_PostgresLocking(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer sqlDB.Close()

	db := database.New(sqlDB, "postgres")
	repo := NewOrgPolicyRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT .+ FROM org_policies.+WHERE organization_uuid = \$1 AND title = \$2 FOR UPDATE`).
		WithArgs("org-001", "Remote Work Policy").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO org_policies`).
		WithArgs(sqlmock.AnyArg(), "org-001", "Remote Work Policy", constants.PolicyTypeOrgPolicy,
			"<h1>Remote Work</h1>", "HR", "Workplace", `{"assignments": []}`,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, created, err := repo.GetOrCreateOrgPolicy(context.Background(), "org-001", "Remote Work Policy", &model.OrgPolicyDefaults{
		PolicyType:           constants.PolicyTypeOrgPolicy,
		CurrentTemplateHTML:  "<h1>Remote Work</h1>",
		Department:           "HR",
		Category:             "Workplace",
		WorkforceAssignments: `{"assignments": []}`,
	})
	if err != nil {
		t.Fatalf("GetOrCreateOrgPolicy failed: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
