package repository

import (
	"context"
	"database/sql"
	"time"

	"policy-registry/src/internal/model"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repository helpers that must run inside a caller's transaction take it
// explicitly; *database.DB satisfies it through the embedded *sql.DB.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org *model.Organization) error
	GetOrganizationByUUID(ctx context.Context, uuid string) (*model.Organization, error)
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *model.Employee) error
	GetEmployeeByUUID(ctx context.Context, uuid string) (*model.Employee, error)
}

// PolicyTemplateRepository defines the interface for policy template data access
type PolicyTemplateRepository interface {
	CreatePolicyTemplate(ctx context.Context, template *model.PolicyTemplate) error
	GetPolicyTemplateByUUID(ctx context.Context, uuid string) (*model.PolicyTemplate, error)
	GetPolicyTemplateByTitle(ctx context.Context, title string) (*model.PolicyTemplate, error)
	ListPolicyTemplates(ctx context.Context) ([]*model.PolicyTemplate, error)
}

// OrgPolicyRepository defines the interface for org policy data access
type OrgPolicyRepository interface {
	GetOrgPolicyByUUID(ctx context.Context, uuid string) (*model.OrgPolicy, error)
	// GetOrCreateOrgPolicy atomically fetches or creates the row keyed by
	// (organizationID, title). An existing row has its writable defaults
	// overwritten. The created flag is true for exactly one caller under
	// contention.
	GetOrCreateOrgPolicy(ctx context.Context, organizationID, title string, defaults *model.OrgPolicyDefaults) (*model.OrgPolicy, bool, error)
	// LockOrgPolicyTx reads the row and holds its lock until tx ends, so
	// concurrent writers against the same policy serialize.
	LockOrgPolicyTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.OrgPolicy, error)
	UpdateOrgPolicyContentTx(ctx context.Context, tx *sql.Tx, uuid, templateHTML, workforceAssignments string) error
	ListOrgPoliciesByOrganization(ctx context.Context, organizationID string) ([]*model.OrgPolicy, error)
}

// PolicyVersionRepository defines the interface for policy version data access
type PolicyVersionRepository interface {
	ListVersionsByOrgPolicy(ctx context.Context, orgPolicyID string) ([]*model.PolicyVersion, error)
	ListVersionsTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) ([]*model.PolicyVersion, error)
	CountVersions(ctx context.Context, orgPolicyID string) (int, error)
	CountVersionsTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) (int, error)
	LatestVersion(ctx context.Context, orgPolicyID string) (*model.PolicyVersion, error)
	LatestVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) (*model.PolicyVersion, error)
	FirstVersion(ctx context.Context, orgPolicyID string) (*model.PolicyVersion, error)
	GetVersionByNumber(ctx context.Context, orgPolicyID, version string) (*model.PolicyVersion, error)
	GetVersionByNumberTx(ctx context.Context, tx *sql.Tx, orgPolicyID, version string) (*model.PolicyVersion, error)
	CreatePolicyVersionTx(ctx context.Context, tx *sql.Tx, version *model.PolicyVersion) error
	UpdateVersionStatusTx(ctx context.Context, tx *sql.Tx, uuid, status string, publishedAt *time.Time) error
	ClearCurrentVersionTx(ctx context.Context, tx *sql.Tx, orgPolicyID string) error
	SetCurrentVersionTx(ctx context.Context, tx *sql.Tx, uuid string) error
	SetVersionApprovedByTx(ctx context.Context, tx *sql.Tx, uuid, approvedBy string) error
}

// PolicyApproverRepository defines the interface for policy approver data access
type PolicyApproverRepository interface {
	CreatePolicyApproverTx(ctx context.Context, tx *sql.Tx, approver *model.PolicyApprover) error
	GetApproverByVersionAndEmployee(ctx context.Context, policyVersionID, approverID string) (*model.PolicyApprover, error)
	GetApproverByVersionAndEmployeeTx(ctx context.Context, tx *sql.Tx, policyVersionID, approverID string) (*model.PolicyApprover, error)
	UpdateApproverDecisionTx(ctx context.Context, tx *sql.Tx, uuid, status, condition string) error
}
