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

// PolicyTemplateRepo implements PolicyTemplateRepository
type PolicyTemplateRepo struct {
	db *database.DB
}

// NewPolicyTemplateRepo creates a new policy template repository
func NewPolicyTemplateRepo(db *database.DB) PolicyTemplateRepository {
	return &PolicyTemplateRepo{db: db}
}

// CreatePolicyTemplate inserts a new policy template
func (r *PolicyTemplateRepo) CreatePolicyTemplate(ctx context.Context, template *model.PolicyTemplate) error {
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()

	query := `
		INSERT INTO policy_templates (uuid, title, code, description, template_html, template_group, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		template.ID, template.Title, template.Code, template.Description,
		template.TemplateHTML, template.Group, template.Version,
		template.CreatedAt, template.UpdatedAt)

	return err
}

// GetPolicyTemplateByUUID retrieves a policy template by ID
func (r *PolicyTemplateRepo) GetPolicyTemplateByUUID(ctx context.Context, templateId string) (*model.PolicyTemplate, error) {
	template := &model.PolicyTemplate{}
	query := `
		SELECT uuid, title, code, description, template_html, template_group, version, created_at, updated_at
		FROM policy_templates
		WHERE uuid = ?
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), templateId).Scan(
		&template.ID, &template.Title, &template.Code, &template.Description,
		&template.TemplateHTML, &template.Group, &template.Version,
		&template.CreatedAt, &template.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return template, nil
}

// GetPolicyTemplateByTitle retrieves a policy template by its unique title
func (r *PolicyTemplateRepo) GetPolicyTemplateByTitle(ctx context.Context, title string) (*model.PolicyTemplate, error) {
	template := &model.PolicyTemplate{}
	query := `
		SELECT uuid, title, code, description, template_html, template_group, version, created_at, updated_at
		FROM policy_templates
		WHERE title = ?
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), title).Scan(
		&template.ID, &template.Title, &template.Code, &template.Description,
		&template.TemplateHTML, &template.Group, &template.Version,
		&template.CreatedAt, &template.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return template, nil
}

// ListPolicyTemplates retrieves all policy templates ordered by title
func (r *PolicyTemplateRepo) ListPolicyTemplates(ctx context.Context) ([]*model.PolicyTemplate, error) {
	query := `
		SELECT uuid, title, code, description, template_html, template_group, version, created_at, updated_at
		FROM policy_templates
		ORDER BY title ASC
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*model.PolicyTemplate
	for rows.Next() {
		template := &model.PolicyTemplate{}
		err := rows.Scan(
			&template.ID, &template.Title, &template.Code, &template.Description,
			&template.TemplateHTML, &template.Group, &template.Version,
			&template.CreatedAt, &template.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	return templates, rows.Err()
}
