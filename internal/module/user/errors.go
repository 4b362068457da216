package user

import "errors"

// Module errors.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrAccountDeleted     = errors.New("account deleted")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrForbidden          = errors.New("forbidden")

	// Password errors
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// Registration errors
	ErrRegistrationClosed = errors.New("registration window is closed")

	// Status errors
	ErrCannotSuspendAdmin = errors.New("cannot suspend admin user")
	ErrUserAlreadyActive  = errors.New("user is already active")

	// Token errors
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
