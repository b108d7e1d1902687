package domain

import "errors"

// Error kinds for the rental and billing core. Operations wrap these
// with context naming the precondition that failed; callers match with
// errors.Is.
var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// Account and credential errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateResource  = errors.New("resource id already exists")
)
