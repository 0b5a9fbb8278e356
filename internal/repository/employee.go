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

// EmployeeRepo implements EmployeeRepository
type EmployeeRepo struct {
	db *database.DB
}

// NewEmployeeRepo creates a new employee repository
func NewEmployeeRepo(db *database.DB) EmployeeRepository {
	return &EmployeeRepo{db: db}
}

// CreateEmployee inserts a new employee
func (r *EmployeeRepo) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	employee.CreatedAt = time.Now()

	query := `
		INSERT INTO employees (uuid, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		employee.ID, employee.Name, employee.Email, employee.CreatedAt)

	return err
}

// GetEmployeeByUUID retrieves an employee by ID
func (r *EmployeeRepo) GetEmployeeByUUID(ctx context.Context, employeeId string) (*model.Employee, error) {
	employee := &model.Employee{}
	query := `
		SELECT uuid, name, email, created_at
		FROM employees
		WHERE uuid = ?
	`
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), employeeId).Scan(
		&employee.ID, &employee.Name, &employee.Email, &employee.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return employee, nil
}
