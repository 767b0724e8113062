package service

import "errors"

var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden maps to 403: caller is neither owner nor admin, or the
	// resource is private to them.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is the single login failure; it never says
	// whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrInvalidUpload maps to 400; wrapped with the concrete reason.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrInvalidInput maps to 400 for malformed non-upload input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuotaExceeded maps to 403.
	ErrQuotaExceeded = errors.New("upload quota exceeded")
	// ErrSelfAction rejects admins demoting or deleting themselves.
	ErrSelfAction = errors.New("cannot perform this action on yourself")
)
