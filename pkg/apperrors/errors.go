package apperrors

import "errors"

var (
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrDatasetNotFound       = errors.New("dataset not found")
	ErrOracleUnavailable     = errors.New("oracle unavailable")
	ErrOracleResponseInvalid = errors.New("oracle response invalid")
	ErrUserExists            = errors.New("a user with this email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)
