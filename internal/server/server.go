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

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"policy-registry/src/config"
	"policy-registry/src/internal/cache"
	"policy-registry/src/internal/client/generator"
	"policy-registry/src/internal/client/renderer"
	"policy-registry/src/internal/database"
	"policy-registry/src/internal/handler"
	"policy-registry/src/internal/logger"
	"policy-registry/src/internal/metrics"
	"policy-registry/src/internal/middleware"
	"policy-registry/src/internal/repository"
	"policy-registry/src/internal/service"
	"policy-registry/src/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *database.DB
	cache  *cache.ReconstructionCache
	logger *zap.Logger
}

// StartPolicyRegistryServer creates a new server instance with all dependencies initialized
func StartPolicyRegistryServer(cfg *config.Server) (*Server, error) {
	log, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	// Initialize database using configuration
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Initialize schema (skip when ExecuteSchemaDDL is false, e.g. deployed Postgres without DDL access)
	if cfg.Database.ExecuteSchemaDDL {
		if err := db.InitSchema(cfg.DBSchemaPath); err != nil {
			return nil, err
		}
	} else {
		log.Info("Skipping schema DDL execution (DATABASE_EXECUTE_SCHEMA_DDL=false)")
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	templateRepo := repository.NewPolicyTemplateRepo(db)
	orgPolicyRepo := repository.NewOrgPolicyRepo(db)
	versionRepo := repository.NewPolicyVersionRepo(db)
	approverRepo := repository.NewPolicyApproverRepo(db)

	// Seed default policy templates into the DB
	cfg.PolicyTemplateDefinitionsPath = strings.TrimSpace(cfg.PolicyTemplateDefinitionsPath)
	defaultTemplates, err := utils.LoadPolicyTemplateDefinitions(cfg.PolicyTemplateDefinitionsPath)
	if err != nil {
		// The binary is started both from the repository root and from src/;
		// retry relative paths against src/ before giving up.
		cleanPath := filepath.Clean(cfg.PolicyTemplateDefinitionsPath)
		fallbackPath := ""
		if cleanPath != "" && cleanPath != "." && cleanPath != "src" && !filepath.IsAbs(cleanPath) && !strings.HasPrefix(cleanPath, "src"+string(os.PathSeparator)) {
			fallbackPath = filepath.Join("src", cleanPath)
		}
		if fallbackPath != "" {
			if templates, fallbackErr := utils.LoadPolicyTemplateDefinitions(fallbackPath); fallbackErr == nil {
				defaultTemplates = templates
				cfg.PolicyTemplateDefinitionsPath = fallbackPath
				err = nil
			} else {
				log.Warn("Failed to load default policy templates",
					zap.String("path", fallbackPath),
					zap.Error(fallbackErr))
			}
		}
		if err != nil {
			log.Warn("Failed to load default policy templates",
				zap.String("path", cfg.PolicyTemplateDefinitionsPath),
				zap.Error(err))
		}
	}
	templateSeeder := service.NewPolicyTemplateSeeder(templateRepo, defaultTemplates, log)
	if err := templateSeeder.Seed(context.Background()); err != nil {
		log.Warn("Failed to seed default policy templates", zap.Error(err))
	} else if len(defaultTemplates) > 0 {
		log.Info("Seeded default policy templates", zap.Int("count", len(defaultTemplates)))
	}

	// Initialize metrics
	m := metrics.New()

	// Initialize the optional reconstruction cache. A nil cache is a valid
	// disabled cache; reads fall through to reconstruction.
	var reconCache *cache.ReconstructionCache
	if cfg.Cache.Enabled {
		reconCache, err = cache.NewReconstructionCache(
			cfg.Cache.Addr,
			cfg.Cache.Password,
			cfg.Cache.DB,
			time.Duration(cfg.Cache.TTL)*time.Second,
			log,
		)
		if err != nil {
			return nil, err
		}
		log.Info("Reconstruction cache enabled", zap.String("addr", cfg.Cache.Addr))
	}

	// Initialize upstream clients
	generatorClient := generator.NewClient(generator.Config{
		URL:        cfg.Generator.URL,
		Timeout:    time.Duration(cfg.Generator.Timeout) * time.Second,
		MaxRetries: cfg.Generator.MaxRetries,
	})
	rendererClient := renderer.NewClient(renderer.Config{
		URL:        cfg.Renderer.URL,
		Timeout:    time.Duration(cfg.Renderer.Timeout) * time.Second,
		MaxRetries: cfg.Renderer.MaxRetries,
	})

	// Initialize services
	generatorService := service.NewGeneratorService(generatorClient, cfg.Branding, m, log)
	reconstructService := service.NewReconstructService(versionRepo, reconCache, m, log)
	renderService := service.NewRenderService(rendererClient, cfg.Branding, log)
	policyService := service.NewPolicyService(db, orgRepo, employeeRepo, templateRepo,
		orgPolicyRepo, versionRepo, approverRepo, generatorService, reconstructService,
		renderService, m, log)

	// Initialize handlers
	policyHandler := handler.NewPolicyHandler(policyService)
	orgHandler := handler.NewOrganizationHandler(policyService)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())

	// Configure and apply CORS middleware first
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(m.GinMiddleware())

	// Register routes
	policyHandler.RegisterRoutes(router)
	orgHandler.RegisterRoutes(router)

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return &Server{
		router: router,
		db:     db,
		cache:  reconCache,
		logger: log,
	}, nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests before closing the database and cache connections.
func (s *Server) Start(port string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.logger.Info("Policy registry listening", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	if err := s.cache.Close(); err != nil {
		s.logger.Warn("Failed to close cache connection", zap.Error(err))
	}
	if err := s.db.Close(); err != nil {
		s.logger.Warn("Failed to close database connection", zap.Error(err))
	}
	s.logger.Sync()
	return nil
}

// GetRouter returns the gin router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
