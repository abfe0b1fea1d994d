package service

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers classify them with errors.Is.
var (
	// ErrValidation marks bad user input (empty title, password mismatch, bad file type).
	ErrValidation = errors.New("validation failed")
	// ErrAuth marks bad credentials.
	ErrAuth = errors.New("invalid email or password")
	// ErrNotFound marks an unknown item id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks an email that is already registered.
	ErrDuplicate = errors.New("account already exists")
	// ErrStorageIO marks a failure to persist an uploaded file.
	ErrStorageIO = errors.New("storage failure")
	// ErrInvalidSession marks a session token that is malformed, forged or expired.
	ErrInvalidSession = errors.New("invalid session")
)

// Specific validation failures. Each wraps ErrValidation.
var (
	ErrCredentialsRequired = fmt.Errorf("%w: email and password are required", ErrValidation)
	ErrPasswordMismatch    = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrValidation)
)
