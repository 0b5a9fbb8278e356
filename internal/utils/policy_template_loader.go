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

package utils

import (
	"fmt"
	"os"
	"strings"

	"policy-registry/src/internal/model"

	"gopkg.in/yaml.v3"
)

type policyTemplateYAML struct {
	Code         string `yaml:"code"`
	Title        string `yaml:"title"`
	Group        string `yaml:"group"`
	Version      string `yaml:"version"`
	Description  string `yaml:"description"`
	TemplateHTML string `yaml:"templateHtml"`
}

type policyTemplateSetYAML struct {
	APIVersion string               `yaml:"apiVersion"`
	Kind       string               `yaml:"kind"`
	Templates  []policyTemplateYAML `yaml:"templates"`
}

// LoadPolicyTemplateDefinitions reads the policy template definition file
// used to seed a fresh database. Every entry needs a code and a title; the
// returned templates carry no IDs, the seeder assigns those.
func LoadPolicyTemplateDefinitions(path string) ([]*model.PolicyTemplate, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("template definitions path is empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template definitions %s: %w", path, err)
	}

	var doc policyTemplateSetYAML
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template definitions %s: %w", path, err)
	}

	res := make([]*model.PolicyTemplate, 0, len(doc.Templates))
	for i, tpl := range doc.Templates {
		if strings.TrimSpace(tpl.Code) == "" {
			return nil, fmt.Errorf("template entry %d in %s is missing code", i, path)
		}
		if strings.TrimSpace(tpl.Title) == "" {
			return nil, fmt.Errorf("template entry %d in %s is missing title", i, path)
		}
		res = append(res, &model.PolicyTemplate{
			Code:         tpl.Code,
			Title:        tpl.Title,
			Group:        tpl.Group,
			Version:      tpl.Version,
			Description:  tpl.Description,
			TemplateHTML: tpl.TemplateHTML,
		})
	}

	return res, nil
}
