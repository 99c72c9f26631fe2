package rtcauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	secretcache "github.com/OpsMx/rtc-auth-client/internal/credentials"
	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
	"github.com/OpsMx/rtc-auth-client/pkg/types"
)

// decoySecret keys the signature check for tokens whose signing key cannot
// be resolved, so unknown applications cost the same work as bad signatures
var decoySecret = []byte("rtcauth-decoy-signing-secret")

// Validator validates HS256 tokens signed with keys derived from application
// secrets. It holds no per-token state and is safe for concurrent use.
type Validator struct {
	resolver      *jwt.SigningKeyResolver
	scope         string
	leeway        time.Duration
	checkIssuedAt bool
	secretTTL     time.Duration
	logger        *zap.Logger
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator)

// WithScope requires the "scope" claim to equal scope exactly
func WithScope(scope string) ValidatorOption {
	return func(v *Validator) {
		v.scope = scope
	}
}

// WithLeeway allows clock skew when checking exp, iat and nbf
func WithLeeway(leeway time.Duration) ValidatorOption {
	return func(v *Validator) {
		v.leeway = leeway
	}
}

// WithIssuedAtCheck controls whether tokens with an "iat" after the
// validation time are rejected. It is enabled by default.
func WithIssuedAtCheck(enabled bool) ValidatorOption {
	return func(v *Validator) {
		v.checkIssuedAt = enabled
	}
}

// WithSecretCacheTTL caches secrets returned by the SecretResolver for ttl.
// Only successful lookups are cached. A ttl <= 0 leaves caching off.
func WithSecretCacheTTL(ttl time.Duration) ValidatorOption {
	return func(v *Validator) {
		v.secretTTL = ttl
	}
}

// WithLogger sets the logger used to record rejection reasons
func WithLogger(logger *zap.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a validator that resolves application secrets with secrets
func NewValidator(secrets jwt.SecretResolver, opts ...ValidatorOption) *Validator {
	v := &Validator{
		checkIssuedAt: true,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}

	if secrets != nil && v.secretTTL > 0 {
		secrets = secretcache.NewCachingResolver(secrets, v.secretTTL)
	}
	v.resolver = jwt.NewSigningKeyResolver(secrets)
	return v
}

// NewHMSOAuthFlowValidator creates a validator for JWTs passed as an OAuth 2.0
// client_assertion in the managed HMS push OAuth flow. The "scope" claim must be
// https://push-api.cloud.huawei.com.
func NewHMSOAuthFlowValidator(secrets jwt.SecretResolver, opts ...ValidatorOption) *Validator {
	return NewValidator(secrets, append([]ValidatorOption{WithScope(types.HMSPushScope)}, opts...)...)
}

// Validate checks the token's signature, time claims and scope against now
// Every failure yields Invalid; the reason is only logged.
//
// Validate does not track nonces. Callers that need replay protection must
// reject previously seen "nonce" values themselves.
func (v *Validator) Validate(ctx context.Context, tokenString string, now time.Time) ValidationResult {
	result, err := v.validate(ctx, tokenString, now)
	if err != nil {
		v.logger.Debug("token rejected", zap.Error(err))
		return Invalid
	}
	return result
}

// IsTokenValid reports whether Validate accepts the token
func (v *Validator) IsTokenValid(ctx context.Context, tokenString string, now time.Time) bool {
	return v.Validate(ctx, tokenString, now).Valid()
}

func (v *Validator) validate(ctx context.Context, tokenString string, now time.Time) (ValidationResult, error) {
	var (
		claims         = &types.ClientAssertionClaims{}
		applicationKey string
		signingKey     *jwt.SigningKey
		resolveErr     error
	)

	keyFunc := func(token *jwtv5.Token) (interface{}, error) {
		kid, _ := token.Header[types.HeaderKeyID].(string)

		applicationKey, resolveErr = lookupApplicationKey(token.Header, claims)
		if resolveErr == nil {
			signingKey, resolveErr = v.resolver.Resolve(ctx, kid, applicationKey)
		}
		if resolveErr != nil {
			decoy, err := jwt.DeriveSigningKey(decoySecret, now)
			if err != nil {
				return nil, err
			}
			return decoy, nil
		}
		return signingKey.Bytes(), nil
	}

	parser := jwtv5.NewParser(v.parserOptions(now)...)
	_, err := parser.ParseWithClaims(tokenString, claims, keyFunc)
	if signingKey != nil {
		signingKey.Zero()
	}

	if resolveErr != nil {
		return Invalid, fmt.Errorf("failed to resolve signing key: %w", resolveErr)
	}
	if err != nil {
		return Invalid, classifyParseError(err)
	}

	// The token is now verified in terms of signature and expiry.
	if claims.IssuedAt == nil {
		return Invalid, fmt.Errorf("%w: missing iat", ErrExpiredOrNotYetValid)
	}
	if v.scope != "" && claims.Scope != v.scope {
		return Invalid, fmt.Errorf("%w: got %q", ErrScopeMismatch, claims.Scope)
	}

	return valid(applicationKey, claims.Subject), nil
}

func (v *Validator) parserOptions(now time.Time) []jwtv5.ParserOption {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(func() time.Time { return now }),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(v.leeway),
	}
	if v.checkIssuedAt {
		opts = append(opts, jwtv5.WithIssuedAt())
	}
	return opts
}

// lookupApplicationKey picks the application key used to find the secret,
// preferring the claim, then the header parameter, then the issuer URI
func lookupApplicationKey(header map[string]interface{}, claims *types.ClientAssertionClaims) (string, error) {
	fromHeader, _ := header[types.ClaimApplicationKey].(string)

	switch {
	case claims.ApplicationKey != "" && fromHeader != "" && claims.ApplicationKey != fromHeader:
		return "", ErrApplicationKeyMismatch
	case claims.ApplicationKey != "":
		return claims.ApplicationKey, nil
	case fromHeader != "":
		return fromHeader, nil
	}

	if key := types.ApplicationKeyFromURI(claims.Issuer); key != "" {
		return key, nil
	}
	return "", jwt.ErrNoKey
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	case errors.Is(err, jwtv5.ErrTokenExpired),
		errors.Is(err, jwtv5.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwtv5.ErrTokenNotValidYet),
		errors.Is(err, jwtv5.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrExpiredOrNotYetValid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
