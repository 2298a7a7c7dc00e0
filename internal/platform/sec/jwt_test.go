// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package sec_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

// testSecret is a 32-byte key, base64 encoded, used across codec tests.
var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func newTestCodec(t *testing.T) *sec.Codec {
	t.Helper()
	codec, err := sec.NewCodec(testSecret, "acadia.io")
	require.NoError(t, err)
	return codec
}

/*
TestNewCodec_KeyValidation verifies secret decoding and length requirements.
*/
func TestNewCodec_KeyValidation(t *testing.T) {
	// 1. Not base64
	_, err := sec.NewCodec("!!!not-base64!!!", "acadia.io")
	assert.Error(t, err)

	// 2. Too short after decoding
	shortSecret := base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = sec.NewCodec(shortSecret, "acadia.io")
	assert.Error(t, err)

	// 3. Valid
	_, err = sec.NewCodec(testSecret, "acadia.io")
	assert.NoError(t, err)
}

/*
TestCodec_RoundTrip verifies that an issued token verifies and carries
the subject and role set intact.
*/
func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("ada", []sec.RoleName{sec.RoleTeacher, sec.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "ada", claims.Subject)
	assert.Equal(t, "acadia.io", claims.Issuer)
	assert.ElementsMatch(t, []sec.RoleName{sec.RoleTeacher, sec.RoleAdmin}, claims.RoleNames())
}

/*
TestCodec_ExpiredToken verifies that an out-of-window token reports
TOKEN_EXPIRED and never INVALID_TOKEN.
*/
func TestCodec_ExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	// A negative ttl produces a token already past its expiry.
	token, err := codec.Issue("ada", []sec.RoleName{sec.RoleStudent}, -time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(token)

	assert.Nil(t, claims)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeTokenExpired))
	assert.False(t, apperr.IsCode(err, apperr.CodeInvalidToken))
}

/*
TestCodec_ExpiryBoundary pins the exact boundary semantics: a token whose
expiry equals the current instant is still accepted, and the first instant
after it is rejected as expired.
*/
func TestCodec_ExpiryBoundary(t *testing.T) {
	codec := newTestCodec(t)

	// The exp claim is serialized at second precision, so the pinned instant
	// must sit on a whole second for the round trip to preserve it exactly.
	issuedAt := time.Now().Truncate(time.Second)
	codec.SetClock(func() time.Time { return issuedAt })

	token, err := codec.Issue("ada", []sec.RoleName{sec.RoleStudent}, 0)
	require.NoError(t, err)

	// 1. exp == now: still valid
	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.Subject)

	// 2. The first instant past the expiry: expired
	codec.SetClock(func() time.Time { return issuedAt.Add(time.Nanosecond) })
	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeTokenExpired))
}

/*
TestCodec_NotYetValidToken verifies a correctly-signed token carrying a
future nbf claim is rejected rather than silently accepted.
*/
func TestCodec_NotYetValidToken(t *testing.T) {
	codec := newTestCodec(t)

	keyBytes, err := base64.StdEncoding.DecodeString(testSecret)
	require.NoError(t, err)

	claims := sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ada",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(keyBytes)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidToken))
}

/*
TestCodec_TamperedToken verifies that a modified payload reports
INVALID_TOKEN even when the embedded expiry has passed.
*/
func TestCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("ada", []sec.RoleName{sec.RoleStudent}, -time.Minute)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	claims, err := codec.Verify(tampered)

	assert.Nil(t, claims)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidToken))
}

/*
TestCodec_WrongKey verifies that tokens signed under a different key
are rejected as invalid.
*/
func TestCodec_WrongKey(t *testing.T) {
	codec := newTestCodec(t)

	otherSecret := base64.StdEncoding.EncodeToString([]byte("ffffffffffffffffffffffffffffffff"))
	otherCodec, err := sec.NewCodec(otherSecret, "acadia.io")
	require.NoError(t, err)

	token, err := otherCodec.Issue("ada", []sec.RoleName{sec.RoleStudent}, time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidToken))
}

/*
TestCodec_GarbageInput verifies that non-JWT strings report INVALID_TOKEN.
*/
func TestCodec_GarbageInput(t *testing.T) {
	codec := newTestCodec(t)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Verify(input)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, apperr.CodeInvalidToken))
	}
}

/*
TestClaims_RoleNames verifies unknown role strings are dropped, not trusted.
*/
func TestClaims_RoleNames(t *testing.T) {
	claims := &sec.Claims{Roles: []string{"ADMIN", "WIZARD", "STUDENT"}}
	assert.ElementsMatch(t, []sec.RoleName{sec.RoleAdmin, sec.RoleStudent}, claims.RoleNames())
}
