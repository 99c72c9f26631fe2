// Package jwt provides HMAC-based JWT signing key derivation with daily key rotation
package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// KeyIDPrefix is the versioned prefix of every derived key identifier
const KeyIDPrefix = "hkdfv1-"

// dateLayout formats a derivation date as YYYYMMDD
const dateLayout = "20060102"

// SigningKey encapsulates a derived HS256 signing key with its metadata
// A SigningKey is meant to live for a single sign or verify call
type SigningKey struct {
	key  []byte
	kid  string
	date time.Time
}

// FormatDate formats the UTC calendar date of t as YYYYMMDD
// Time of day is discarded
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// KeyID returns the key identifier for keys derived on the UTC date of t
func KeyID(t time.Time) string {
	return KeyIDPrefix + FormatDate(t)
}

// ParseKeyID recovers the derivation date (UTC midnight) from a key identifier
func ParseKeyID(kid string) (time.Time, error) {
	date, ok := strings.CutPrefix(kid, KeyIDPrefix)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: expected prefix %q", ErrMalformedKeyID, KeyIDPrefix)
	}
	if len(date) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: expected %d digit date, got %q", ErrMalformedKeyID, len(dateLayout), date)
	}
	for _, c := range date {
		if c < '0' || c > '9' {
			return time.Time{}, fmt.Errorf("%w: non-digit in date %q", ErrMalformedKeyID, date)
		}
	}

	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedKeyID, err)
	}

	return t, nil
}

// DeriveSigningKey derives the 256-bit signing key for the UTC date of t
// The key is HMAC-SHA256 over the YYYYMMDD date string, keyed by secret
func DeriveSigningKey(secret []byte, t time.Time) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidSecret
	}

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(FormatDate(t)))
	return h.Sum(nil), nil
}

// DeriveSigningKeyBase64 derives a signing key from a base64-encoded secret
func DeriveSigningKeyBase64(secret string, t time.Time) ([]byte, error) {
	raw, err := DecodeSecret(secret)
	if err != nil {
		return nil, err
	}
	return DeriveSigningKey(raw, t)
}

// DecodeSecret decodes a standard base64-encoded application secret
func DecodeSecret(secret string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretEncoding, err)
	}
	if len(raw) == 0 {
		return nil, ErrInvalidSecret
	}
	return raw, nil
}

// DeriveKey derives a signing key and returns it as a SigningKey struct
func DeriveKey(secret []byte, t time.Time) (*SigningKey, error) {
	key, err := DeriveSigningKey(secret, t)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	date := t.UTC()
	return &SigningKey{
		key:  key,
		kid:  KeyID(date),
		date: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

// Bytes returns the raw key material
func (k *SigningKey) Bytes() []byte {
	return k.key
}

// Kid returns the key identifier for this key
func (k *SigningKey) Kid() string {
	return k.kid
}

// Date returns the derivation date (UTC midnight)
func (k *SigningKey) Date() time.Time {
	return k.date
}

// Zero wipes the key material
func (k *SigningKey) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
	k.key = nil
}
