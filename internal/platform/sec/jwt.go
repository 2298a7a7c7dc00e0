// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// edge filter and the auth service via small interfaces.
package sec

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
)

// minKeyBytes is the minimum decoded HMAC key length accepted at startup.
// HS256 keys shorter than the hash output size weaken the signature.
const minKeyBytes = 32

// Claims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the role set next to the registered subject claim, the edge
// filter can establish caller identity WITHOUT querying the user directory
// on every single request. Numeric IDs and profile data are deliberately NOT
// in the token: services re-resolve them through the directory so that a
// token outlives neither role revocation nor account deletion silently.
type Claims struct {
	jwt.RegisteredClaims

	// Roles carries the role names granted at issuance.
	Roles []string `json:"roles"`
}

// RoleNames returns the claim's roles as validated [RoleName] values.
// Unknown names are dropped rather than trusted.
func (c *Claims) RoleNames() []RoleName {
	roles := make([]RoleName, 0, len(c.Roles))
	for _, raw := range c.Roles {
		role := RoleName(raw)
		if role.Valid() {
			roles = append(roles, role)
		}
	}
	return roles
}

// Codec signs and verifies compact HS256 access tokens.
//
// # Concurrency
//
// The signing key is loaded once at process start and never mutated, so a
// single Codec is safe for unlimited concurrent readers.
type Codec struct {
	signingKey []byte
	issuer     string

	// now is the codec's time source. Production codecs tick with the wall
	// clock; tests pin it to exercise the expiry boundary deterministically.
	now func() time.Time
}

// NewCodec builds a Codec from a base64-encoded symmetric secret.
//
// The key material itself comes from configuration — the codec never reads
// the environment or the filesystem.
func NewCodec(base64Secret, issuer string) (*Codec, error) {
	keyBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("sec: signing secret is not valid base64: %w", err)
	}

	if len(keyBytes) < minKeyBytes {
		return nil, fmt.Errorf("sec: signing key too short: got %d bytes, need at least %d", len(keyBytes), minKeyBytes)
	}

	return &Codec{
		signingKey: keyBytes,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// Issue creates a signed access token for the given subject.
//
// The expiration instant is computed as now + timeToLive. Issuing with a
// zero or negative ttl produces a token that [Codec.Verify] reports as
// expired, never as invalid.
func (codec *Codec) Issue(subject string, roles []RoleName, timeToLive time.Duration) (string, error) {
	currentTime := codec.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Roles: RoleStrings(roles),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity window of a token string.
//
// # Failure Taxonomy
//
// Verify distinguishes two failure kinds so callers can special-case them:
//
//   - INVALID_TOKEN: malformed payload, unexpected algorithm, or signature
//     mismatch. Terminal for the credential; log-worthy as a security event.
//   - TOKEN_EXPIRED: signature valid but the expiration instant has passed.
//     Recoverable via the refresh flow.
//
// Claim extraction never precedes signature verification: the returned
// [*Claims] is only produced after the HMAC has been checked.
//
// # Expiry Boundary
//
// A token is expired iff its expiration instant is strictly before now —
// a token expiring at exactly the current instant is still accepted.
func (codec *Codec) Verify(tokenString string) (*Claims, error) {
	// The library's own claim validation is disabled so that expiry can be
	// checked with strict "before now" semantics after the signature passes,
	// and so an expired-but-tampered token still reports INVALID_TOKEN.
	// That also disables the library's nbf check, so not-before is enforced
	// manually below even though Issue never sets it.
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.signingKey, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, apperr.InvalidToken("Token is malformed or has an invalid signature")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.InvalidToken("Token claims are not well-formed")
	}

	// A structurally valid token must always carry a subject and an expiry.
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, apperr.InvalidToken("Token is missing required claims")
	}

	if claims.NotBefore != nil && codec.now().Before(claims.NotBefore.Time) {
		return nil, apperr.InvalidToken("Token is not valid yet")
	}

	if claims.ExpiresAt.Time.Before(codec.now()) {
		return nil, apperr.TokenExpired("Token has expired")
	}

	return claims, nil
}
