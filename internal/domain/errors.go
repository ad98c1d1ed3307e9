package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInsufficientStock is returned when a conditional stock decrement finds
	// less stock than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition is returned for order status changes the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidInput marks request data a service rejected before touching storage.
	ErrInvalidInput = errors.New("invalid input")
)
