package rtcauth

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/OpsMx/rtc-auth-client/pkg/types"
)

// ClientAssertion builds the JWT passed as an OAuth 2.0 client_assertion to
// an application's token endpoint in the managed HMS push OAuth flow.
// It is the counterpart of the validator returned by NewHMSOAuthFlowValidator.
type ClientAssertion struct {
	applicationKey    string
	applicationSecret []byte
	hmsApplicationID  string
	audience          string
	nonce             string
	issuedAt          time.Time
	expiresAt         time.Time
}

// NewClientAssertion validates its inputs and returns an assertion builder
// audience is the URL of the token endpoint the assertion is presented to
func NewClientAssertion(
	applicationKey string,
	applicationSecret string,
	hmsApplicationID string,
	audience string,
	nonce string,
	issuedAt time.Time,
	expiresAt time.Time,
) (*ClientAssertion, error) {
	if applicationKey == "" {
		return nil, invalidArgument("applicationKey")
	}
	secret, err := decodeSecretArgument(applicationSecret)
	if err != nil {
		return nil, err
	}
	if hmsApplicationID == "" {
		return nil, invalidArgument("hmsApplicationID")
	}
	if audience == "" {
		return nil, invalidArgument("audience")
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

	return &ClientAssertion{
		applicationKey:    applicationKey,
		applicationSecret: secret,
		hmsApplicationID:  hmsApplicationID,
		audience:          audience,
		nonce:             nonce,
		issuedAt:          issuedAt,
		expiresAt:         expiresAt,
	}, nil
}

// JWT builds and signs the assertion
func (a *ClientAssertion) JWT() (string, error) {
	claims := jwtv5.MapClaims{
		types.ClaimAudience:       a.audience,
		types.ClaimExpiresAt:      a.expiresAt.Unix(),
		types.ClaimIssuedAt:       a.issuedAt.Unix(),
		types.ClaimIssuer:         types.ApplicationURI(a.applicationKey),
		types.ClaimNonce:          a.nonce,
		types.ClaimScope:          types.HMSPushScope,
		types.ClaimApplicationKey: a.applicationKey,
		types.ClaimSubject:        a.hmsApplicationID,
	}

	return signHS256(a.applicationSecret, a.issuedAt, true, claims,
		headerParam{types.ClaimApplicationKey, a.applicationKey})
}
