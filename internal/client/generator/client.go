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

package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"policy-registry/src/internal/client"
)

// Client posts generation prompts to the configured text generation service.
// It is stateless and safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *client.RetryableHTTPClient
}

// NewClient creates a generator client for the provided Config. Unlike other
// outbound clients, retries are left at the configured value (default 0):
// generation requests are expensive and a retried call can double spend.
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

// queryRequest is the generation service's request payload
type queryRequest struct {
	Query string `json:"query"`
}

// queryResponse is the generation service's response payload
type queryResponse struct {
	Response string `json:"response"`
}

// Generate posts the prompt and returns the cleaned HTML fragment, trimmed
// to the first <h1>. Failures come back as *GeneratorError with Code 408 on
// timeout and 500 otherwise.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, "<h1>")
}

// GenerateDocument posts the prompt and returns a cleaned complete HTML
// document, trimmed to the leading <!DOCTYPE html> declaration.
func (c *Client) GenerateDocument(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, "<!DOCTYPE html>")
}

func (c *Client) generate(ctx context.Context, prompt, marker string) (string, error) {
	body, err := json.Marshal(queryRequest{Query: prompt})
	if err != nil {
		return "", NewGeneratorError(http.StatusInternalServerError, "failed to marshal generation request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", NewGeneratorError(http.StatusInternalServerError, "failed to build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", NewGeneratorError(http.StatusRequestTimeout, "generation request timed out", err)
		}
		return "", NewGeneratorError(http.StatusInternalServerError, "generation request failed", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewGeneratorError(http.StatusInternalServerError, "reading generation response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", NewGeneratorError(resp.StatusCode, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(b)), nil)
	}

	var out queryResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", NewGeneratorError(http.StatusInternalServerError, "decoding generation response failed", err)
	}

	return cleanResponse(out.Response, marker), nil
}

// cleanResponse strips the wrapping the generation service tends to add
// around documents: a JSON-style quoted string and markdown code fences.
// Everything before marker is prologue chatter and is dropped; when the
// marker never appears the cleaned text is returned whole.
func cleanResponse(raw, marker string) string {
	html := strings.TrimSpace(raw)

	if len(html) >= 2 && strings.HasPrefix(html, `"`) && strings.HasSuffix(html, `"`) {
		html = html[1 : len(html)-1]
	}
	html = strings.TrimSpace(html)

	if strings.HasPrefix(html, "```html") {
		html = html[len("```html"):]
	} else if strings.HasPrefix(html, "```") {
		html = html[len("```"):]
	}
	if strings.HasSuffix(html, "```") {
		html = html[:len(html)-len("```")]
	}
	html = strings.TrimSpace(html)

	if idx := strings.Index(html, marker); idx > 0 {
		html = html[idx:]
	}
	return html
}

// isTimeout reports whether err is a request deadline or network timeout
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
