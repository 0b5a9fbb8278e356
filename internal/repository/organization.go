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

// OrganizationRepo implements OrganizationRepository
type OrganizationRepo struct {
	db *database.DB
}

// NewOrganizationRepo creates a new organization repository
func NewOrganizationRepo(db *database.DB) OrganizationRepository {
	return &OrganizationRepo{db: db}
}

// CreateOrganization inserts a new organization
func (r *OrganizationRepo) CreateOrganization(ctx context.Context, org *model.Organization) error {
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	query := `
		INSERT INTO organizations (uuid, name, domain, light_logo, dark_logo, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		org.ID, org.Name, org.Domain, org.LightLogo, org.DarkLogo, org.Status,
		org.CreatedAt, org.UpdatedAt)

	return err
}

// GetOrganizationByUUID retrieves an organization by ID
func (r *OrganizationRepo) GetOrganizationByUUID(ctx context.Context, orgId string) (*model.Organization, error) {
	org := &model.Organization{}
	query := `
		SELECT uuid, name, domain, light_logo, dark_logo, status, created_at, updated_at
		FROM organizations
		WHERE uuid = ?
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), orgId).Scan(
		&org.ID, &org.Name, &org.Domain, &org.LightLogo, &org.DarkLogo, &org.Status,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}
