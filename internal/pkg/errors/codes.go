package errors

import "net/http"

// StatusClientClosedRequest is the de-facto status for requests the client abandoned.
const StatusClientClosedRequest = 499

var (
	ErrInvalidCriteria = New(
		"INVALID_CRITERIA",
		"Invalid search criteria",
		http.StatusBadRequest,
	)

	ErrUnknownPassengerType = New(
		"UNKNOWN_PASSENGER_TYPE",
		"Unknown passenger type",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrRequestCancelled = New(
		"REQUEST_CANCELLED",
		"Request was cancelled by the client",
		StatusClientClosedRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// ErrCatalogueUnavailable is retryable: the route catalogue could not be read in time.
var ErrCatalogueUnavailable = &AppError{
	Code:       "CATALOGUE_UNAVAILABLE",
	Message:    "Route catalogue is temporarily unavailable",
	StatusCode: http.StatusServiceUnavailable,
	Retryable:  true,
}
