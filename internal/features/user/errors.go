package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMissingFields   = errors.New("fullname, email and password are required")
	ErrEmailTaken      = errors.New("email is already registered")
	ErrInvalidUserType = errors.New("user type must be student or instructor")
)
