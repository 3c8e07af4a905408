package chargebee

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the Chargebee API.
type APIError struct {
	StatusCode int
	Code       string // Chargebee api_error_code, when present
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("chargebee API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("chargebee API error %d: %s", e.StatusCode, e.Message)
}

// IsAuth reports whether the error is an authentication failure.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether the referenced pricing page or subscription is missing.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// parseAPIError derives a human-readable message from an error body. Chargebee
// normally returns JSON with "message" and "api_error_code" fields, but
// gateways in front of it can return plain text, so fall back to the raw body.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    "Failed to create pricing page session",
	}

	raw := strings.TrimSpace(string(body))

	var parsed struct {
		Message      string `json:"message"`
		APIErrorCode string `json:"api_error_code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Code = parsed.APIErrorCode
		switch {
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		case parsed.APIErrorCode != "":
			apiErr.Message = fmt.Sprintf("%s: %s", parsed.APIErrorCode, raw)
		}
		return apiErr
	}

	if raw != "" {
		apiErr.Message = raw
	}
	return apiErr
}
