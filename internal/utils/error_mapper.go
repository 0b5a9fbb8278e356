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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"policy-registry/src/internal/constants"

	"github.com/go-playground/validator/v10"
)

// makeError creates a standardized error response tuple
func makeError(status int, message string) (int, interface{}) {
	return status, NewErrorResponse(status, http.StatusText(status), message)
}

// FormatValidationError converts validator errors to user-friendly messages (public API)
func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error() // Not a validation error, return as-is
	}
	return formatValidationError(validationErrors)
}

// formatValidationError converts ValidationErrors to user-friendly messages (internal)
func formatValidationError(validationErrors validator.ValidationErrors) string {
	var messages []string
	for _, fieldError := range validationErrors {
		fieldName := getUserFriendlyFieldName(fieldError.Field())
		message := getValidationErrorMessage(fieldName, fieldError.Tag(), fieldError.Param())
		messages = append(messages, message)
	}
	return strings.Join(messages, "; ")
}

// getUserFriendlyFieldName maps struct field names to user-friendly field names
func getUserFriendlyFieldName(fieldName string) string {
	fieldMap := map[string]string{
		"OrganizationID":      "organization ID",
		"PolicyTemplateID":    "policy template ID",
		"OrgPolicyID":         "policy ID",
		"HTMLContent":         "HTML content",
		"WorkforceAssignment": "workforce assignment",
		"Approver":            "approver",
		"Decision":            "decision",
		"Condition":           "condition",
		"Version":             "version",
		"Status":              "status",
		"ExpiredAt":           "expiry date",
		"Department":          "department",
		"Category":            "category",
	}

	if friendly, exists := fieldMap[fieldName]; exists {
		return friendly
	}
	return strings.ToLower(fieldName)
}

// getValidationErrorMessage creates user-friendly validation error messages
func getValidationErrorMessage(fieldName, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", fieldName)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fieldName, param)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fieldName, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fieldName)
	}
}

// GetErrorResponse maps domain errors and validation errors to HTTP status and error response
func GetErrorResponse(err error) (int, interface{}) {
	// First check if it's a validation error
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		userFriendlyMessage := formatValidationError(validationErrors)
		return makeError(http.StatusBadRequest, userFriendlyMessage)
	}

	// Handle domain/business logic errors
	switch {
	// Lookup errors
	case errors.Is(err, constants.ErrOrganizationNotFound):
		return makeError(http.StatusNotFound, "Organization not found")
	case errors.Is(err, constants.ErrPolicyTemplateNotFound):
		return makeError(http.StatusNotFound, "Policy template not found")
	case errors.Is(err, constants.ErrOrgPolicyNotFound):
		return makeError(http.StatusNotFound, "Policy not found")
	case errors.Is(err, constants.ErrNoVersions):
		return makeError(http.StatusNotFound, "Policy has no versions yet")
	case errors.Is(err, constants.ErrVersionNotFound):
		return makeError(http.StatusNotFound, "Policy version not found")
	case errors.Is(err, constants.ErrApproverNotFound):
		return makeError(http.StatusNotFound, "Approver not found")
	case errors.Is(err, constants.ErrApproverNotAssigned):
		return makeError(http.StatusNotFound, "Approver is not assigned to this version")

	// Request errors
	case errors.Is(err, constants.ErrTemplateTitleEmpty):
		return makeError(http.StatusBadRequest, "Policy template has no title")
	case errors.Is(err, constants.ErrInvalidStatusTransition):
		return makeError(http.StatusBadRequest, "Invalid status transition")
	case errors.Is(err, constants.ErrInvalidApproverDecision):
		return makeError(http.StatusBadRequest, "Decision must be approved or rejected")
	case errors.Is(err, constants.ErrInvalidExpiryDate):
		return makeError(http.StatusBadRequest, "Expiry date must be a YYYY-MM-DD date")

	// Conflict errors
	case errors.Is(err, constants.ErrDuplicateVersion):
		return makeError(http.StatusConflict, "Policy version already exists")
	case errors.Is(err, constants.ErrApproverAlreadyDecided):
		return makeError(http.StatusConflict, "Approver has already recorded a different decision")

	// Upstream errors
	case errors.Is(err, constants.ErrUpstreamGenerator):
		return makeError(http.StatusBadGateway, "Policy document generation service failed")
	case errors.Is(err, constants.ErrRenderFailed):
		return makeError(http.StatusInternalServerError, "Policy PDF rendering failed")

	// Default case for unknown errors
	default:
		return makeError(http.StatusInternalServerError, "Internal Server Error")
	}
}
