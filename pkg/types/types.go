// Package types defines claim payloads and claim names shared by issuers and validators
package types

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claim and header parameter names
const (
	ClaimIssuedAt          = "iat"
	ClaimExpiresAt         = "exp"
	ClaimIssuer            = "iss"
	ClaimSubject           = "sub"
	ClaimAudience          = "aud"
	ClaimNonce             = "nonce"
	ClaimScope             = "scope"
	ClaimApplicationKey    = "sinch:rtc:application_key"
	ClaimInstanceExpiresAt = "sinch:rtc:instance:exp"

	HeaderKeyID     = "kid"
	HeaderTokenType = "typ"
)

// ApplicationsURIPrefix is the prefix of application-scoped issuer URIs
const ApplicationsURIPrefix = "//rtc.sinch.com/applications/"

// HMSPushScope is the scope asserted for the Huawei HMS push OAuth flow
const HMSPushScope = "https://push-api.cloud.huawei.com"

// ClientAssertionClaims represents the claims read from a received token
type ClientAssertionClaims struct {
	jwt.RegisteredClaims
	Nonce             string           `json:"nonce,omitempty"`
	Scope             string           `json:"scope,omitempty"`
	ApplicationKey    string           `json:"sinch:rtc:application_key,omitempty"`
	InstanceExpiresAt *jwt.NumericDate `json:"sinch:rtc:instance:exp,omitempty"`
}

// ApplicationURI returns the issuer URI for an application
func ApplicationURI(applicationKey string) string {
	return ApplicationsURIPrefix + applicationKey
}

// UserURI returns the subject URI for a user of an application
func UserURI(applicationKey, userID string) string {
	return ApplicationURI(applicationKey) + "/users/" + userID
}

// ApplicationKeyFromURI extracts the application key from an issuer URI
// It returns "" if uri is not of the form //rtc.sinch.com/applications/{key}
func ApplicationKeyFromURI(uri string) string {
	key, ok := strings.CutPrefix(uri, ApplicationsURIPrefix)
	if !ok || key == "" || strings.Contains(key, "/") {
		return ""
	}
	return key
}
