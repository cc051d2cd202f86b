package domain

import "errors"

// Domain-level errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalError = errors.New("internal error")
	ErrTaskNotFound  = errors.New("task not found")

	// ErrQueueDisabled is returned when the queue client was constructed
	// without credentials and cannot talk to the backend
	ErrQueueDisabled = errors.New("message queue not configured")

	// ErrConsumerRunning is returned by a second Start on a running consumer
	ErrConsumerRunning = errors.New("consumer already running")
)
