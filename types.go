package rtcauth

import (
	"errors"
	"fmt"

	"github.com/OpsMx/rtc-auth-client/internal/config"
)

// Config is an alias to the settings type in internal/config
type Config = config.Config

// Validation failure reasons
// These are logged for diagnostics and never surfaced by Validate
var (
	// ErrMalformedToken is returned when the token is not a well-formed HS256 JWT
	ErrMalformedToken = errors.New("malformed token")

	// ErrSignatureMismatch is returned when the signature does not verify with the derived key
	ErrSignatureMismatch = errors.New("token signature mismatch")

	// ErrExpiredOrNotYetValid is returned when exp, iat or nbf fail against the validation time
	ErrExpiredOrNotYetValid = errors.New("token expired or not yet valid")

	// ErrScopeMismatch is returned when the scope claim differs from the expected scope
	ErrScopeMismatch = errors.New("token scope mismatch")

	// ErrApplicationKeyMismatch is returned when header and claim application keys disagree
	ErrApplicationKeyMismatch = errors.New("token application key mismatch")
)

// ValidationResult is the outcome of validating a token
// The zero value is the invalid result
type ValidationResult struct {
	valid          bool
	applicationKey string
	subject        string
}

// Invalid is the result for every rejected token
var Invalid = ValidationResult{}

func valid(applicationKey, subject string) ValidationResult {
	return ValidationResult{
		valid:          true,
		applicationKey: applicationKey,
		subject:        subject,
	}
}

// Valid reports whether the token passed validation
func (r ValidationResult) Valid() bool {
	return r.valid
}

// ApplicationKey returns the verified application key, or "" for an invalid result
func (r ValidationResult) ApplicationKey() string {
	return r.applicationKey
}

// Subject returns the verified "sub" claim, or "" for an invalid result
// For HMS OAuth client assertions this is the HMS application id
func (r ValidationResult) Subject() string {
	return r.subject
}

// String implements fmt.Stringer
func (r ValidationResult) String() string {
	if !r.valid {
		return "invalid"
	}
	return fmt.Sprintf("valid application_key=%s subject=%s", r.applicationKey, r.subject)
}

// ClientError represents an error from constructing an issuer or client
type ClientError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeConfigurationError = "CONFIGURATION_ERROR"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
)

// NewClientErrorWithDetails creates a new client error with details
func NewClientErrorWithDetails(code, message, details string) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// invalidArgument reports a missing or unusable required argument by name
func invalidArgument(name string) *ClientError {
	return NewClientErrorWithDetails(ErrCodeInvalidArgument, "missing or invalid required argument", name)
}

// IsClientError checks if an error is a ClientError
func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}

// GetClientError returns the ClientError if the error is a ClientError
func GetClientError(err error) *ClientError {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	return nil
}

// IsInvalidArgument reports whether err is an invalid argument ClientError
func IsInvalidArgument(err error) bool {
	clientErr := GetClientError(err)
	return clientErr != nil && clientErr.Code == ErrCodeInvalidArgument
}
