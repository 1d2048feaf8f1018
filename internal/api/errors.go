package api

import (
	"errors"
	"net/http"

	"sqlcanvas/internal/domain"
)

// statusFromError maps the engine's error taxonomy to HTTP status codes.
// Materialization and execution errors are the user's authoring mistakes,
// so they map to 400 rather than 500.
func statusFromError(err error) int {
	var notFound *domain.ReferenceNotFoundError
	var empty *domain.ReferenceEmptyError
	var materialization *domain.MaterializationError
	var execution *domain.ExecutionError
	var timeout *domain.ExecutionTimeoutError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.As(err, &materialization), errors.As(err, &execution):
		return http.StatusBadRequest
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
