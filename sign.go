package rtcauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
	"github.com/OpsMx/rtc-auth-client/pkg/types"
)

// headerParam is a JOSE header parameter written after alg, typ and kid
type headerParam struct {
	name  string
	value string
}

// signHS256 signs claims with the key derived for issuedAt.
// The header is written in a fixed order: alg, typ (when withType is set),
// kid, then extra in the order given. Claims are written with sorted keys.
func signHS256(secret []byte, issuedAt time.Time, withType bool, claims jwtv5.MapClaims, extra ...headerParam) (string, error) {
	key, err := jwt.DeriveKey(secret, issuedAt)
	if err != nil {
		return "", err
	}
	defer key.Zero()

	method := jwtv5.SigningMethodHS256
	params := []headerParam{{"alg", method.Alg()}}
	if withType {
		params = append(params, headerParam{types.HeaderTokenType, "JWT"})
	}
	params = append(params, headerParam{types.HeaderKeyID, key.Kid()})
	params = append(params, extra...)

	header, err := encodeHeader(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode JWT header: %w", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode JWT claims: %w", err)
	}

	token := jwtv5.New(method)
	signingString := token.EncodeSegment(header) + "." + token.EncodeSegment(payload)

	sig, err := method.Sign(signingString, key.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signingString + "." + token.EncodeSegment(sig), nil
}

// encodeHeader writes params as a JSON object, keeping their order
func encodeHeader(params []headerParam) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range params {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
