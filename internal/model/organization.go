package model

import (
	"time"
)

// Organization represents a tenant in the policy registry
type Organization struct {
	ID        string    `json:"id" db:"uuid"`
	Name      string    `json:"name" db:"name"`
	Domain    string    `json:"domain,omitempty" db:"domain"`
	LightLogo string    `json:"lightLogo,omitempty" db:"light_logo"`
	DarkLogo  string    `json:"darkLogo,omitempty" db:"dark_logo"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}

// Employee is an external identity referenced by policy approvers.
type Employee struct {
	ID        string    `json:"id" db:"uuid"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
