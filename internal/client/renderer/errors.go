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

import "fmt"

// RendererError represents a failed rendering request
type RendererError struct {
	Code       int    // HTTP status code from the rendering service, when one was received
	Message    string // human-readable error message
	Underlying error  // underlying error if any
}

// Error implements the error interface for RendererError
func (e *RendererError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("renderer error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("renderer error: %s", e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *RendererError) Unwrap() error {
	return e.Underlying
}

// NewRendererError creates a new RendererError
func NewRendererError(code int, message string, underlying error) *RendererError {
	return &RendererError{
		Code:       code,
		Message:    message,
		Underlying: underlying,
	}
}
