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
	"encoding/base64"
	"fmt"

	"policy-registry/src/config"
	"policy-registry/src/internal/constants"
	"policy-registry/src/internal/model"

	"go.uber.org/zap"
)

// RenderClient is the outbound surface the export pipeline needs from the
// HTML-to-PDF rendering service.
type RenderClient interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// RenderService wraps reconstructed policy HTML in the export header and
// converts it to a PDF document through the rendering service.
type RenderService struct {
	client   RenderClient
	branding config.Branding
	logger   *zap.Logger
}

// NewRenderService creates a new RenderService.
func NewRenderService(client RenderClient, branding config.Branding, logger *zap.Logger) *RenderService {
	return &RenderService{
		client:   client,
		branding: branding,
		logger:   logger,
	}
}

// RenderPolicyPDF wraps the HTML in the branded export header, renders it and
// returns the PDF base64-encoded for embedding in a JSON response. Failures
// are reported as ErrRenderFailed.
func (s *RenderService) RenderPolicyPDF(ctx context.Context, html string, org *model.Organization) (string, error) {
	wrapped := wrapForExport(html, exportLogoSource(org), s.branding.ParentLogoURL)

	pdf, err := s.client.Render(ctx, wrapped)
	if err != nil {
		s.logger.Error("PDF rendering failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", constants.ErrRenderFailed, err)
	}

	s.logger.Info("Policy PDF rendered", zap.Int("pdfBytes", len(pdf)))
	return base64.StdEncoding.EncodeToString(pdf), nil
}

// exportLogoSource picks what goes into the organization slot of the export
// header: light logo, then dark logo, then the organization name. A missing
// organization leaves the slot empty rather than failing the export.
func exportLogoSource(org *model.Organization) string {
	if org == nil {
		return ""
	}
	if org.LightLogo != "" {
		return org.LightLogo
	}
	if org.DarkLogo != "" {
		return org.DarkLogo
	}
	return org.Name
}

// wrapForExport embeds the policy body in the printable page shell: a
// "powered by" strip on the left and the organization logo centered above
// the content.
func wrapForExport(body, orgLogo, parentLogo string) string {
	return fmt.Sprintf(pdfExportTemplate, parentLogo, orgLogo, body)
}

// pdfExportTemplate is the outer document handed to the rendering service.
// Arguments: 1 parent logo URL, 2 organization logo URL, 3 body HTML.
const pdfExportTemplate = `<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
        }
        .header {
            margin-bottom: 30px;
            padding-bottom: 15px;
        }
        .header-top {
            display: flex;
            justify-content: space-between;
            align-items: flex-start;
            margin-bottom: 15px;
        }
        .powered-by-section {
            display: flex;
            align-items: center;
            gap: 8px;
            font-size: 10px;
            color: #666;
        }
        .parent-logo {
            height: 22px;
            width: auto;
        }
        .main-logo-section {
            text-align: center;
            flex-grow: 1;
        }
        .main-logo {
            height: 50px;
            width: auto;
        }
        .policy-title {
            text-align: center;
            font-size: 24px;
            font-weight: bold;
            margin-top: 10px;
            color: #333;
        }
        .company-name {
            text-align: center;
            font-size: 14px;
            color: #666;
            margin-top: 5px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="header-top">
            <div class="powered-by-section">
                <span>Powered by </span>
                <img src="%s" alt="Platform Logo" class="parent-logo">
            </div>
            <div class="main-logo-section">
                <img src="%s" alt="Organization Logo" style="height: 75px; width: auto;">
            </div>
        </div>
    </div>
    %s
</body>
</html>`
