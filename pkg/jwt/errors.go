package jwt

import "errors"

// Errors returned by key derivation and resolution
var (
	// ErrMalformedKeyID is returned when a "kid" is not of the form hkdfv1-YYYYMMDD
	ErrMalformedKeyID = errors.New("malformed key id")

	// ErrInvalidSecret is returned when the application secret is empty
	ErrInvalidSecret = errors.New("invalid application secret")

	// ErrInvalidSecretEncoding is returned when the application secret is not valid base64
	ErrInvalidSecretEncoding = errors.New("invalid application secret encoding")

	// ErrSecretNotFound is returned by a SecretResolver for an unknown application key
	ErrSecretNotFound = errors.New("application secret not found")

	// ErrNoKey is returned when no signing key can be resolved for a token
	ErrNoKey = errors.New("no signing key")
)
