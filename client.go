// Package rtcauth issues and validates RTC tokens signed with daily keys
// derived from an application secret
package rtcauth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OpsMx/rtc-auth-client/internal/config"
)

// Client issues tokens on behalf of a single application
type Client struct {
	applicationKey    string
	applicationSecret string
	tokenTTL          time.Duration
	instanceTTL       time.Duration
	newNonce          func() string
}

// NewClient creates a Client configured from environment variables
// It reads RTC_APPLICATION_KEY, RTC_APPLICATION_SECRET, RTC_TOKEN_TTL and
// RTC_INSTANCE_TTL, loading a .env file from the working directory first if present
func NewClient() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, NewClientErrorWithDetails(ErrCodeConfigurationError, "failed to load configuration", err.Error())
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a Client from an explicit configuration
func NewClientWithConfig(cfg Config) (*Client, error) {
	if err := cfg.ValidateIssuer(); err != nil {
		return nil, NewClientErrorWithDetails(ErrCodeConfigurationError, "invalid configuration", err.Error())
	}
	if _, err := decodeSecretArgument(cfg.ApplicationSecret); err != nil {
		return nil, NewClientErrorWithDetails(ErrCodeConfigurationError, "invalid application secret", err.Error())
	}

	return &Client{
		applicationKey:    cfg.ApplicationKey,
		applicationSecret: cfg.ApplicationSecret,
		tokenTTL:          cfg.TokenTTL,
		instanceTTL:       cfg.InstanceTTL,
		newNonce:          uuid.NewString,
	}, nil
}

// ApplicationKey returns the application key tokens are issued for
func (c *Client) ApplicationKey() string {
	return c.applicationKey
}

// RegistrationToken issues a User registration token for userID, valid from now for the token TTL
// A random UUID is used as the nonce
func (c *Client) RegistrationToken(userID string, now time.Time) (string, error) {
	var opts []RegistrationOption
	if c.instanceTTL > 0 {
		opts = append(opts, WithInstanceExpiresAt(now.Add(c.instanceTTL)))
	}

	token, err := NewUserRegistrationToken(c.applicationKey, c.applicationSecret, userID, c.newNonce(), now, now.Add(c.tokenTTL), opts...)
	if err != nil {
		return "", err
	}

	jwtToken, err := token.JWT()
	if err != nil {
		return "", fmt.Errorf("failed to create JWT: %w", err)
	}
	return jwtToken, nil
}

// ClientAssertion issues an HMS OAuth client assertion for hmsApplicationID,
// to be presented at the token endpoint audience
func (c *Client) ClientAssertion(hmsApplicationID, audience string, now time.Time) (string, error) {
	assertion, err := NewClientAssertion(c.applicationKey, c.applicationSecret, hmsApplicationID, audience, c.newNonce(), now, now.Add(c.tokenTTL))
	if err != nil {
		return "", err
	}

	jwtToken, err := assertion.JWT()
	if err != nil {
		return "", fmt.Errorf("failed to create JWT: %w", err)
	}
	return jwtToken, nil
}
