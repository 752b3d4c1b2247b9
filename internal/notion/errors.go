// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"errors"
	"fmt"
)

// API error codes returned in the "code" field of an error body.
const (
	CodeUnauthorized        = "unauthorized"
	CodeRestrictedResource  = "restricted_resource"
	CodeObjectNotFound      = "object_not_found"
	CodeRateLimited         = "rate_limited"
	CodeInvalidJSON         = "invalid_json"
	CodeInvalidRequestURL   = "invalid_request_url"
	CodeInvalidRequest      = "invalid_request"
	CodeValidationError     = "validation_error"
	CodeConflictError       = "conflict_error"
	CodeInternalServerError = "internal_server_error"
	CodeServiceUnavailable  = "service_unavailable"
)

var knownCodes = map[string]bool{
	CodeUnauthorized:        true,
	CodeRestrictedResource:  true,
	CodeObjectNotFound:      true,
	CodeRateLimited:         true,
	CodeInvalidJSON:         true,
	CodeInvalidRequestURL:   true,
	CodeInvalidRequest:      true,
	CodeValidationError:     true,
	CodeConflictError:       true,
	CodeInternalServerError: true,
	CodeServiceUnavailable:  true,
}

// IsAPIErrorCode reports whether code is one of the documented API error codes.
func IsAPIErrorCode(code string) bool { return knownCodes[code] }

// IsRetryable reports whether an error code denotes a transient failure.
func IsRetryable(code string) bool {
	switch code {
	case CodeRateLimited, CodeConflictError, CodeInternalServerError, CodeServiceUnavailable:
		return true
	}
	return false
}

// ErrObjectNotFound is matched by an APIError carrying CodeObjectNotFound.
var ErrObjectNotFound = errors.New("object not found")

// HTTPError is a failed response whose body is not a recognizable API error.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request to Notion API failed with status: %d", e.Status)
}

// APIError is a failed response carrying a documented error code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s [%s]", e.Message, e.Code)
}

// Is lets errors.Is(err, ErrObjectNotFound) match not-found responses.
func (e *APIError) Is(target error) bool {
	return target == ErrObjectNotFound && e.Code == CodeObjectNotFound
}

// IsNotFound reports whether err is, or wraps, an object_not_found response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsPermissionError reports whether err is, or wraps, an authorization failure.
func IsPermissionError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeUnauthorized || apiErr.Code == CodeRestrictedResource
}
