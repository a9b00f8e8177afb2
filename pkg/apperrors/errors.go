package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrPolicyViolation    = errors.New("policy violation")
	ErrLastAdmin          = errors.New("cannot remove last administrator")
	ErrSystemRole         = errors.New("system role cannot be modified")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
