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

package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	// Server configurations
	Port string `envconfig:"PORT" default:"9350"`

	// Logging configurations
	Log Log `envconfig:"LOG"`

	// Database configurations
	Database     Database `envconfig:"DATABASE"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./internal/database/schema.sql"`

	// Policy template bootstrap (used to seed defaults into the DB)
	PolicyTemplateDefinitionsPath string `envconfig:"POLICY_TEMPLATE_DEFINITIONS_PATH" default:"./resources/default-policy-templates.yaml"`

	// External text generator used to produce initial policy HTML
	Generator Generator `envconfig:"GENERATOR"`

	// External HTML-to-PDF rendering service
	Renderer Renderer `envconfig:"RENDERER"`

	// Branding assets embedded into exported documents
	Branding Branding `envconfig:"BRANDING"`

	// Optional Redis cache for reconstructed documents
	Cache Cache `envconfig:"CACHE"`
}

// Log holds logging configuration. An empty File logs to stdout.
type Log struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"json"`
	File       string `envconfig:"FILE" default:""`
	MaxSizeMB  int    `envconfig:"MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `envconfig:"MAX_AGE_DAYS" default:"30"`
	Compress   bool   `envconfig:"COMPRESS" default:"true"`
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// DBPath is the file path for SQLite databases.
	// Use DATABASE_DB_PATH to override; keeping it distinct from the OS PATH variable.
	Path            string `envconfig:"DB_PATH" default:"./data/policy_registry.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"NAME" default:"policy_registry"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds

	// ExecuteSchemaDDL controls whether to run the schema DDL (CREATE TABLE, etc.) on startup.
	// Set to false when the DB user lacks DDL privileges (e.g. deployed Postgres with restricted role).
	// Env: DATABASE_EXECUTE_SCHEMA_DDL (default: true)
	ExecuteSchemaDDL bool `envconfig:"EXECUTE_SCHEMA_DDL" default:"true"`
}

// Generator holds the external text generator configuration. The timeout is
// independent of the caller's request deadline.
type Generator struct {
	URL        string `envconfig:"URL" default:"http://localhost:8001/api/generate"`
	Timeout    int    `envconfig:"TIMEOUT" default:"100"` // seconds
	MaxRetries int    `envconfig:"MAX_RETRIES" default:"0"`
}

// Renderer holds the HTML-to-PDF rendering service configuration
type Renderer struct {
	URL        string `envconfig:"URL" default:"http://localhost:8002/api/render"`
	Timeout    int    `envconfig:"TIMEOUT" default:"60"` // seconds
	MaxRetries int    `envconfig:"MAX_RETRIES" default:"0"`
}

// Branding holds the logo URLs stamped onto rendered documents
type Branding struct {
	ParentLogoURL string `envconfig:"PARENT_LOGO_URL" default:""`
	CompanyName   string `envconfig:"COMPANY_NAME" default:"Your Company"`
}

// Cache holds the optional Redis reconstruction cache configuration
type Cache struct {
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
	TTL      int    `envconfig:"TTL" default:"300"` // seconds
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Settings struct.
// It uses sync.Once to ensure that the initialization logic is executed only once,
// making it safe for concurrent use. If there is an error during the initialization,
// the function will panic.
//
// Returns:
//
//	*Settings - A pointer to the singleton instance of the Settings struct. from environment variables.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance = &Server{}
		err = envconfig.Process("", settingInstance)
		if err == nil {
			err = validateGeneratorConfig(&settingInstance.Generator)
		}
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// validateGeneratorConfig validates the external generator configuration.
//
// Policy initialisation cannot work without a generator endpoint, so the
// URL must be present and the timeout positive.
//
// Parameters:
//   - cfg: generator configuration to validate
//
// Returns:
//   - error: Validation error if configuration is invalid, nil otherwise
func validateGeneratorConfig(cfg *Generator) error {
	if cfg.URL == "" {
		return fmt.Errorf("generator endpoint is not configured; set GENERATOR_URL")
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("generator timeout must be positive; got %d", cfg.Timeout)
	}

	return nil
}
