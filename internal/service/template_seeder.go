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
	"fmt"

	"policy-registry/src/internal/model"
	"policy-registry/src/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PolicyTemplateSeeder seeds the default policy templates into the DB at
// startup so initialise calls on a fresh installation do not fail with
// "policy template not found".
//
// Seeding is idempotent: existing titles are not overwritten.
type PolicyTemplateSeeder struct {
	repo      repository.PolicyTemplateRepository
	templates []*model.PolicyTemplate
	logger    *zap.Logger
}

func NewPolicyTemplateSeeder(repo repository.PolicyTemplateRepository, templates []*model.PolicyTemplate, logger *zap.Logger) *PolicyTemplateSeeder {
	return &PolicyTemplateSeeder{repo: repo, templates: templates, logger: logger}
}

func (s *PolicyTemplateSeeder) Seed(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if len(s.templates) == 0 {
		return nil
	}

	existing, err := s.repo.ListPolicyTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list existing templates: %w", err)
	}
	existingByTitle := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		if t == nil {
			continue
		}
		existingByTitle[t.Title] = struct{}{}
	}

	seeded := 0
	for _, tpl := range s.templates {
		if tpl == nil || tpl.Title == "" {
			continue
		}
		if _, ok := existingByTitle[tpl.Title]; ok {
			continue
		}

		toCreate := &model.PolicyTemplate{
			ID:           uuid.New().String(),
			Title:        tpl.Title,
			Code:         tpl.Code,
			Description:  tpl.Description,
			TemplateHTML: tpl.TemplateHTML,
			Group:        tpl.Group,
			Version:      tpl.Version,
		}
		if err := s.repo.CreatePolicyTemplate(ctx, toCreate); err != nil {
			// Be tolerant to concurrent startup / repeated seeding.
			current, getErr := s.repo.GetPolicyTemplateByTitle(ctx, tpl.Title)
			if getErr == nil && current != nil {
				continue
			}
			return fmt.Errorf("failed to create template %s: %w", tpl.Title, err)
		}
		seeded++
	}

	if seeded > 0 {
		s.logger.Info("Seeded default policy templates", zap.Int("count", seeded))
	}
	return nil
}
