package rtcauth

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
	"github.com/OpsMx/rtc-auth-client/pkg/types"
)

// UserRegistrationToken builds signed JWTs that authorize User registration
// for RTC clients. The token is issued by an application and signed with a
// key derived from the application secret for the UTC date of issuedAt.
type UserRegistrationToken struct {
	applicationKey    string
	applicationSecret []byte
	userID            string
	nonce             string
	issuedAt          time.Time
	expiresAt         time.Time
	instanceExpiresAt time.Time
	withTokenType     bool
}

// RegistrationOption configures optional parts of a UserRegistrationToken
type RegistrationOption func(*UserRegistrationToken)

// WithInstanceExpiresAt sets the time after which the client registration
// authorized by the token expires. Without it the registration does not expire.
func WithInstanceExpiresAt(t time.Time) RegistrationOption {
	return func(u *UserRegistrationToken) {
		u.instanceExpiresAt = t
	}
}

// WithTokenType adds the "typ": "JWT" header parameter
func WithTokenType() RegistrationOption {
	return func(u *UserRegistrationToken) {
		u.withTokenType = true
	}
}

// NewUserRegistrationToken validates its inputs and returns a token builder
// applicationSecret is the base64-encoded application secret and nonce should be unique per token
func NewUserRegistrationToken(
	applicationKey string,
	applicationSecret string,
	userID string,
	nonce string,
	issuedAt time.Time,
	expiresAt time.Time,
	opts ...RegistrationOption,
) (*UserRegistrationToken, error) {
	if applicationKey == "" {
		return nil, invalidArgument("applicationKey")
	}
	secret, err := decodeSecretArgument(applicationSecret)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalidArgument("userID")
	}
	if nonce == "" {
		return nil, invalidArgument("nonce")
	}
	if issuedAt.IsZero() {
		return nil, invalidArgument("issuedAt")
	}
	if expiresAt.IsZero() || !expiresAt.After(issuedAt) {
		return nil, invalidArgument("expiresAt")
	}

	u := &UserRegistrationToken{
		applicationKey:    applicationKey,
		applicationSecret: secret,
		userID:            userID,
		nonce:             nonce,
		issuedAt:          issuedAt,
		expiresAt:         expiresAt,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// JWT builds and signs the token
// Claims are serialized with sorted keys so identical inputs give identical tokens
func (u *UserRegistrationToken) JWT() (string, error) {
	claims := jwtv5.MapClaims{
		types.ClaimIssuer:    types.ApplicationURI(u.applicationKey),
		types.ClaimSubject:   types.UserURI(u.applicationKey, u.userID),
		types.ClaimIssuedAt:  u.issuedAt.Unix(),
		types.ClaimExpiresAt: u.expiresAt.Unix(),
		types.ClaimNonce:     u.nonce,
	}
	if !u.instanceExpiresAt.IsZero() {
		claims[types.ClaimInstanceExpiresAt] = u.instanceExpiresAt.Unix()
	}

	return signHS256(u.applicationSecret, u.issuedAt, u.withTokenType, claims)
}

func decodeSecretArgument(applicationSecret string) ([]byte, error) {
	if applicationSecret == "" {
		return nil, invalidArgument("applicationSecret")
	}
	secret, err := jwt.DecodeSecret(applicationSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", invalidArgument("applicationSecret"), err)
	}
	return secret, nil
}
