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
	"fmt"
	"net/http"
)

// GeneratorError represents a failed generation request. Code carries the
// effective status: the upstream HTTP status when one was received,
// http.StatusRequestTimeout for timeouts, and http.StatusInternalServerError
// for everything else.
type GeneratorError struct {
	Code       int    // effective HTTP status code
	Message    string // human-readable error message
	Underlying error  // underlying error if any
}

// Error implements the error interface for GeneratorError
func (e *GeneratorError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("generator error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("generator error: %s", e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *GeneratorError) Unwrap() error {
	return e.Underlying
}

// NewGeneratorError creates a new GeneratorError
func NewGeneratorError(code int, message string, underlying error) *GeneratorError {
	return &GeneratorError{
		Code:       code,
		Message:    message,
		Underlying: underlying,
	}
}

// IsTimeout reports whether the request timed out waiting for the generator
func (e *GeneratorError) IsTimeout() bool {
	return e.Code == http.StatusRequestTimeout
}
