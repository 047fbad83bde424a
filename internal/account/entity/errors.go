package entity

import "errors"

var (
	ErrDuplicateEmail     = errors.New("account: email already registered")
	ErrAccountNotFound    = errors.New("account: account not found")
	ErrInvalidCredentials = errors.New("account: invalid email or credential")
	ErrSecretMissing      = errors.New("account: otp secret has not been generated")
	ErrInvalidToken       = errors.New("account: otp token is invalid")
	ErrMFANotEnabled      = errors.New("account: two-factor authentication is not enabled")
)
