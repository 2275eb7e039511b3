// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
// The receiver's extension map is never mutated.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

// Problem types as URI references.
const (
	TypeValidation         = "/problems/validation-error"
	TypeInternal           = "/problems/internal-error"
	TypeBadRequest         = "/problems/bad-request"
	TypeUnavailable        = "/problems/service-unavailable"
	TypeNoTemporalProperty = "/problems/no-temporal-property"
	TypeExtentUnavailable  = "/problems/extent-unavailable"
	TypeInvalidGMLTime     = "/problems/invalid-gml-time"
)

// Pre-defined problem templates.
var (
	// ErrValidation indicates the request failed validation.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrUnavailable indicates a collaborator the request needs is not configured.
	ErrUnavailable = ProblemDetail{
		Type:   TypeUnavailable,
		Title:  "Service Unavailable",
		Status: http.StatusServiceUnavailable,
	}

	// ErrNoTemporalProperty indicates the feature type declares no temporal property.
	ErrNoTemporalProperty = ProblemDetail{
		Type:   TypeNoTemporalProperty,
		Title:  "No Temporal Property",
		Status: http.StatusNotFound,
	}

	// ErrExtentUnavailable indicates every temporal property failed extent computation.
	ErrExtentUnavailable = ProblemDetail{
		Type:   TypeExtentUnavailable,
		Title:  "Temporal Extent Unavailable",
		Status: http.StatusUnprocessableEntity,
	}

	// ErrInvalidGMLTime indicates a GML time element could not be parsed.
	ErrInvalidGMLTime = ProblemDetail{
		Type:   TypeInvalidGMLTime,
		Title:  "Invalid GML Time",
		Status: http.StatusUnprocessableEntity,
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewInvalidGMLTimeProblem reports a parser failure with a machine readable kind.
func NewInvalidGMLTimeProblem(kind, detail string) ProblemDetail {
	return ErrInvalidGMLTime.WithDetail(detail).WithExtension("errorKind", kind)
}
