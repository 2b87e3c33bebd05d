package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidCollection = errors.New("collection must not be empty")
	ErrInvalidOperation  = errors.New("operation must be created, updated, or deleted")
	ErrInvalidDocumentID = errors.New("documentId must not be empty")
	ErrMalformedChange   = errors.New("change payload is missing required fields")
	ErrTokenRequired     = errors.New("fcm token is required")
	ErrQueueFull         = errors.New("queue is at capacity, try again later")
)
