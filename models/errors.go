package models

import "errors"

// Error taxonomy shared by repositories and services. Callers wrap these with
// fmt.Errorf("%w: ...") and the response package maps them to HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientStock  = errors.New("insufficient stock")
)
