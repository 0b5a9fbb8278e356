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

package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"policy-registry/src/internal/client"
)

// Client posts complete HTML documents to the configured HTML-to-PDF
// rendering service and returns the raw PDF bytes. It is stateless and safe
// for concurrent use.
type Client struct {
	cfg        Config
	httpClient *client.RetryableHTTPClient
}

// NewClient creates a renderer client for the provided Config
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: client.NewRetryableHTTPClient(cfg.MaxRetries, timeout),
	}
}

// renderRequest is the rendering service's request payload
type renderRequest struct {
	HTML string `json:"html"`
}

// Render posts the document and returns the rendered PDF bytes. The service
// answers with the PDF directly in the response body.
func (c *Client) Render(ctx context.Context, html string) ([]byte, error) {
	body, err := json.Marshal(renderRequest{HTML: html})
	if err != nil {
		return nil, NewRendererError(0, "failed to marshal render request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, NewRendererError(0, "failed to build render request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewRendererError(0, "render request failed", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewRendererError(0, "reading render response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewRendererError(resp.StatusCode, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(b)), nil)
	}
	if len(b) == 0 {
		return nil, NewRendererError(resp.StatusCode, "rendering service returned an empty document", nil)
	}

	return b, nil
}
