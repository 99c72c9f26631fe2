package jwt

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceSecret = "ax8hTTQJF0OPXL32r1LHMA=="

var referenceNow = time.Date(2018, 1, 2, 3, 4, 5, 0, time.UTC)

func referenceSecretBytes(t *testing.T) []byte {
	t.Helper()
	b, err := base64.StdEncoding.DecodeString(referenceSecret)
	require.NoError(t, err)
	return b
}

func TestDeriveSigningKey_ReferenceVector(t *testing.T) {
	key, err := DeriveSigningKey(referenceSecretBytes(t), referenceNow)
	require.NoError(t, err)

	assert.Len(t, key, 32)
	assert.Equal(t, "AZj5EsS8S7wb06xr5jERqPHsraQt3w/+Ih5EfrhisBQ=", base64.StdEncoding.EncodeToString(key))
}

func TestDeriveSigningKeyBase64_ReferenceVector(t *testing.T) {
	key, err := DeriveSigningKeyBase64(referenceSecret, referenceNow)
	require.NoError(t, err)
	assert.Equal(t, "AZj5EsS8S7wb06xr5jERqPHsraQt3w/+Ih5EfrhisBQ=", base64.StdEncoding.EncodeToString(key))
}

func TestDeriveSigningKey_Deterministic(t *testing.T) {
	secret := referenceSecretBytes(t)

	a, err := DeriveSigningKey(secret, referenceNow)
	require.NoError(t, err)
	b, err := DeriveSigningKey(secret, referenceNow)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Time of day does not matter, only the UTC date.
	c, err := DeriveSigningKey(secret, time.Date(2018, 1, 2, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestDeriveSigningKey_Rotation(t *testing.T) {
	secret := referenceSecretBytes(t)

	day1, err := DeriveSigningKey(secret, referenceNow)
	require.NoError(t, err)
	day2, err := DeriveSigningKey(secret, referenceNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	day0, err := DeriveSigningKey(secret, referenceNow.AddDate(0, 0, -1))
	require.NoError(t, err)

	assert.Equal(t, "l6X2iNjao6qzy6De7xzBRf9c+OVhDwekYE5bhCJ1glU=", base64.StdEncoding.EncodeToString(day2))
	assert.NotEqual(t, day1, day2)
	assert.NotEqual(t, day1, day0)
	assert.NotEqual(t, day0, day2)
}

func TestDeriveSigningKey_UsesUTCDate(t *testing.T) {
	// 2018-01-02T01:00 at UTC+3 is still 2018-01-01 in UTC.
	zone := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2018, 1, 2, 1, 0, 0, 0, zone)

	assert.Equal(t, "20180101", FormatDate(local))
	assert.Equal(t, "hkdfv1-20180101", KeyID(local))
}

func TestDeriveSigningKey_EmptySecret(t *testing.T) {
	_, err := DeriveSigningKey(nil, referenceNow)
	assert.ErrorIs(t, err, ErrInvalidSecret)

	_, err = DeriveSigningKey([]byte{}, referenceNow)
	assert.ErrorIs(t, err, ErrInvalidSecret)

	_, err = DeriveKey(nil, referenceNow)
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestDecodeSecret(t *testing.T) {
	_, err := DecodeSecret("not base64!")
	assert.ErrorIs(t, err, ErrInvalidSecretEncoding)

	_, err = DecodeSecret("")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	b, err := DecodeSecret(" " + referenceSecret + "\n")
	require.NoError(t, err)
	assert.Len(t, b, 16)
}

func TestKeyID(t *testing.T) {
	assert.Equal(t, "hkdfv1-20180102", KeyID(referenceNow))
}

func TestParseKeyID_RoundTrip(t *testing.T) {
	start := time.Date(1999, 12, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i += 7 {
		date := start.AddDate(0, 0, i)
		got, err := ParseKeyID(KeyID(date))
		require.NoError(t, err)
		assert.True(t, date.Equal(got), "round trip of %s gave %s", date, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	got, err := ParseKeyID("hkdfv1-20160229")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 2, 29, 0, 0, 0, 0, time.UTC), got)
}

func TestParseKeyID_Malformed(t *testing.T) {
	tests := []string{
		"",
		"hkdfv1-",
		"hkdfv2-20180102",
		"HKDFV1-20180102",
		"20180102",
		"hkdfv1-2018012",
		"hkdfv1-201801021",
		"hkdfv1-2018-01-",
		"hkdfv1-20181301",
		"hkdfv1-20180230",
		"hkdfv1-+2018010",
		"hkdfv1- 2018010",
	}

	for _, kid := range tests {
		t.Run(kid, func(t *testing.T) {
			_, err := ParseKeyID(kid)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedKeyID), "unexpected error: %v", err)
		})
	}
}

func TestDeriveKey(t *testing.T) {
	key, err := DeriveKey(referenceSecretBytes(t), referenceNow)
	require.NoError(t, err)

	assert.Equal(t, "hkdfv1-20180102", key.Kid())
	assert.Equal(t, time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC), key.Date())
	assert.Equal(t, "AZj5EsS8S7wb06xr5jERqPHsraQt3w/+Ih5EfrhisBQ=", base64.StdEncoding.EncodeToString(key.Bytes()))

	material := key.Bytes()
	key.Zero()
	assert.Nil(t, key.Bytes())
	assert.Equal(t, make([]byte, 32), material)
}
