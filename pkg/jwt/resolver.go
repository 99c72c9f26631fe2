package jwt

import (
	"context"
	"errors"
	"fmt"
)

// SecretResolver looks up the base64-encoded application secret for an application key
// Implementations return ErrSecretNotFound for unknown keys and must be safe for concurrent use
type SecretResolver interface {
	ResolveSecret(ctx context.Context, applicationKey string) (string, error)
}

// SecretResolverFunc adapts a function to the SecretResolver interface
type SecretResolverFunc func(ctx context.Context, applicationKey string) (string, error)

// ResolveSecret calls f(ctx, applicationKey)
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, applicationKey string) (string, error) {
	return f(ctx, applicationKey)
}

// SigningKeyResolver reconstructs the signing key a token was issued with
// from its key identifier and application key
type SigningKeyResolver struct {
	secrets SecretResolver
}

// NewSigningKeyResolver creates a resolver backed by the given secret lookup
func NewSigningKeyResolver(secrets SecretResolver) *SigningKeyResolver {
	return &SigningKeyResolver{
		secrets: secrets,
	}
}

// Resolve derives the signing key for kid and applicationKey
// Both values come from an unverified token and are only used for the lookup
func (r *SigningKeyResolver) Resolve(ctx context.Context, kid, applicationKey string) (*SigningKey, error) {
	date, err := ParseKeyID(kid)
	if err != nil {
		return nil, err
	}

	if applicationKey == "" || r.secrets == nil {
		return nil, ErrNoKey
	}

	secret, err := r.secrets.ResolveSecret(ctx, applicationKey)
	if errors.Is(err, ErrSecretNotFound) {
		return nil, ErrNoKey
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve application secret: %w", err)
	}
	if secret == "" {
		return nil, ErrNoKey
	}

	raw, err := DecodeSecret(secret)
	if err != nil {
		return nil, err
	}

	return DeriveKey(raw, date)
}
