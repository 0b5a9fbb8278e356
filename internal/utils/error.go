package utils

import "policy-registry/src/internal/constants"

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Code        int    `json:"code"`
	Status      string `json:"status"`
	Error       string `json:"error"`
	Description string `json:"description,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code int, message string, description ...string) ErrorResponse {
	resp := ErrorResponse{
		Code:   code,
		Status: constants.ResponseStatusError,
		Error:  message,
	}
	if len(description) > 0 {
		resp.Description = description[0]
	}
	return resp
}
