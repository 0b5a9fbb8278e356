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
	"errors"
	"strings"
	"testing"

	"policy-registry/src/config"
	"policy-registry/src/internal/constants"

	"go.uber.org/zap"
)

func TestRenderPolicyPDF(t *testing.T) {
	branding := config.Branding{ParentLogoURL: "https://platform.example/logo.png"}

	t.Run("wraps the body and returns base64", func(t *testing.T) {
		client := &stubRenderClient{pdf: []byte("%PDF-1.7 fake")}
		svc := NewRenderService(client, branding, zap.NewNop())

		encoded, err := svc.RenderPolicyPDF(context.Background(), "<h1>AUP</h1>",
			orgWithLogos("Acme", "https://acme.example/light.png", ""))
		if err != nil {
			t.Fatalf("RenderPolicyPDF error: %v", err)
		}

		decoded, decErr := base64.StdEncoding.DecodeString(encoded)
		if decErr != nil {
			t.Fatalf("response is not valid base64: %v", decErr)
		}
		if string(decoded) != "%PDF-1.7 fake" {
			t.Errorf("decoded PDF = %q", decoded)
		}

		for _, want := range []string{
			"<h1>AUP</h1>",
			`src="https://platform.example/logo.png"`,
			`src="https://acme.example/light.png"`,
			"Powered by",
		} {
			if !strings.Contains(client.gotHTML, want) {
				t.Errorf("rendered document missing %q", want)
			}
		}
	})

	t.Run("renderer failure maps to the render sentinel", func(t *testing.T) {
		client := &stubRenderClient{err: errors.New("chromium crashed")}
		svc := NewRenderService(client, branding, zap.NewNop())

		_, err := svc.RenderPolicyPDF(context.Background(), "<h1>AUP</h1>", nil)
		if !errors.Is(err, constants.ErrRenderFailed) {
			t.Fatalf("error = %v, want ErrRenderFailed", err)
		}
	})
}

func TestExportLogoSource(t *testing.T) {
	tests := []struct {
		name string
		org  func() (light, dark, orgName string)
		want string
	}{
		{"light logo first", func() (string, string, string) { return "light.png", "dark.png", "Acme" }, "light.png"},
		{"dark logo next", func() (string, string, string) { return "", "dark.png", "Acme" }, "dark.png"},
		{"name as last resort", func() (string, string, string) { return "", "", "Acme" }, "Acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light, dark, name := tt.org()
			if got := exportLogoSource(orgWithLogos(name, light, dark)); got != tt.want {
				t.Errorf("exportLogoSource = %q, want %q", got, tt.want)
			}
		})
	}
	if got := exportLogoSource(nil); got != "" {
		t.Errorf("exportLogoSource(nil) = %q, want empty", got)
	}
}
