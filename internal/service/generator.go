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
	"errors"
	"fmt"
	"strconv"
	"time"

	"policy-registry/src/config"
	"policy-registry/src/internal/client/generator"
	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/metrics"
	"policy-registry/src/internal/model"

	"go.uber.org/zap"
)

// GeneratorClient is the outbound surface the formatting pipeline needs from
// the text generation service.
type GeneratorClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// initialDraftLabel is the version stamp embedded in generated documents.
// Policy initialisation runs before any PolicyVersion row exists, so the
// generated document carries this label rather than a committed number.
const initialDraftLabel = "Initial Draft V0"

// promptDateLayout renders dates the way they appear inside generated
// documents, e.g. "October 27, 2025".
const promptDateLayout = "January 2, 2006"

// GeneratorService turns a policy template plus organization metadata into a
// formatted HTML document through the external text generation service.
type GeneratorService struct {
	client   GeneratorClient
	branding config.Branding
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(client GeneratorClient, branding config.Branding, m *metrics.Metrics, logger *zap.Logger) *GeneratorService {
	return &GeneratorService{
		client:   client,
		branding: branding,
		metrics:  m,
		logger:   logger,
	}
}

// FormatPolicyHTML asks the generation service for a formatted policy
// document built from the template and the organization's branding. Any
// failure is reported as ErrUpstreamGenerator; callers never see a partial
// document.
func (s *GeneratorService) FormatPolicyHTML(ctx context.Context, templateHTML, title, department, category string, org *model.Organization) (string, error) {
	company := s.branding.CompanyName
	logo := ""
	if org != nil {
		if org.Name != "" {
			company = org.Name
		}
		logo = org.LightLogo
		if logo == "" {
			logo = org.DarkLogo
		}
	}

	prompt := buildFormatPrompt(templateHTML, title, department, category, company, logo, time.Now().UTC())

	start := time.Now()
	html, err := s.client.Generate(ctx, prompt)
	s.metrics.GeneratorDurationSeconds.Observe(time.Since(start).Seconds())
	s.metrics.GeneratorRequestsTotal.WithLabelValues(generatorStatusLabel(err)).Inc()

	if err != nil {
		s.logger.Error("Policy document generation failed",
			zap.String("policyTitle", title),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", constants.ErrUpstreamGenerator, err)
	}

	s.logger.Info("Policy document generated",
		zap.String("policyTitle", title),
		zap.Int("htmlLength", len(html)))
	return html, nil
}

// generatorStatusLabel maps a generation outcome onto the status label of
// the request counter: "200" for success, the upstream code otherwise.
func generatorStatusLabel(err error) string {
	if err == nil {
		return "200"
	}
	var genErr *generator.GeneratorError
	if errors.As(err, &genErr) {
		return strconv.Itoa(genErr.Code)
	}
	return "500"
}

// buildFormatPrompt assembles the generation instruction for a policy
// document. Department and category are woven through the section list so
// the generated content is specific to them rather than boilerplate.
func buildFormatPrompt(templateHTML, title, department, category, company, logoURL string, now time.Time) string {
	date := now.Format(promptDateLayout)
	expiry := now.AddDate(1, 0, 0).Format(promptDateLayout)
	return fmt.Sprintf(formatPromptTemplate,
		title, department, category, initialDraftLabel, company, logoURL, date, expiry, templateHTML)
}

// formatPromptTemplate is the generation instruction. Arguments: 1 title,
// 2 department, 3 category, 4 version label, 5 company name, 6 logo URL,
// 7 date, 8 expiry date, 9 template HTML.
const formatPromptTemplate = `Create a comprehensive, professional policy document in HTML format with modern, visually appealing styling.

POLICY TITLE: %[1]s
DEPARTMENT: %[2]s
CATEGORY: %[3]s
VERSION: %[4]s
COMPANY NAME: %[5]s
COMPANY LOGO URL: %[6]s
DATE: %[7]s
EXPIRY DATE: %[8]s

Include the following metadata if present:
%[9]s

Generate a complete policy document that includes:

CONTENT STRUCTURE:
1. A header section with:
- Company logo (if provided) centered at the top
- Company name as a prominent subheading
- Policy title as the main heading
- Version, Date, Expiry Date, Department, and Category (if provided) in a metadata block
2. Comprehensive policy sections tailored to the specified department (%[2]s) and category (%[3]s):
- Purpose and Objectives (specific to %[2]s and %[3]s)
- Scope and Applicability (relevant to %[2]s and %[3]s)
- Policy Statements and Principles (customized for %[2]s and %[3]s)
- Roles and Responsibilities (defined within the context of %[2]s and %[3]s)
- Compliance Requirements (aligned with %[2]s and %[3]s standards)
- Review and Revision Process
- Definitions (terms relevant to %[2]s and %[3]s)
3. Proper heading hierarchy (h1 for title, h2 for sections, h3 for subsections)
4. A footer with the company name and date

STYLING REQUIREMENTS:
1. Modern, professional appearance with a clean color palette:
- Primary background: #F9FAFB (light gray)
- Accent color: #1E3A8A (deep blue) for headings and borders
- Secondary accent: #E5E7EB (light gray) for subtle dividers
- Text color: #1F2937 (dark gray) for body text
2. Use system fonts (Inter, Arial, sans-serif) for compatibility and modern look
3. Typography:
- Headings: Bold, Inter font, sizes (h1: 2.5rem, h2: 1.875rem, h3: 1.25rem)
- Body: 1rem, line-height 1.5, Inter font
4. Responsive design:
- Max-width of 800px for main content, centered
- Padding: 2rem on desktop, 1rem on mobile
- Logo scales to max-width 200px on desktop, 150px on mobile
5. Subtle shadows for header and tables (box-shadow: 0 2px 4px rgba(0,0,0,0.1))
6. Left-aligned content with 1rem spacing between sections
7. Footer with light gray background, centered text, and 1rem padding

TABULAR DATA (ONLY WHERE NECESSARY):
1. Use tables ONLY for structured data like:
- Roles and responsibilities matrix
- Definition lists
- Compliance requirements
2. Table styling:
- Border: 1px solid #E5E7EB
- Header background: #1E3A8A, text color: #FFFFFF
- Alternating row backgrounds: #FFFFFF and #F9FAFB
- Padding: 0.75rem
- Subtle shadow: box-shadow: 0 2px 4px rgba(0,0,0,0.1)

CONTENT REQUIREMENTS:
1. Use clear, professional, and actionable language
2. Include proper bullet points and numbering for lists
3. Ensure content flows naturally from left to right
4. Avoid unnecessary visual elements or complex animations
5. Include metadata (version, date, expiry date, department, category) in a clean, labeled format
6. Tailor all policy content, examples, and details to be relevant and specific to the provided department (%[2]s) and category (%[3]s), ensuring the policy addresses needs and scenarios typical to that department and category.

Return ONLY the complete, self-contained HTML document without any explanations.
Include CSS within <style> tags in the head section.
Ensure the design is modern, professional, and responsive, with a focus on readability.`
