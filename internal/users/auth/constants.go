// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultAccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the duration a refresh token remains valid.
	// Seven days balances session longevity against credential exposure.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 8

	// MaxUsernameLength bounds usernames; the value also travels in the
	// identity header, so it stays short.
	MaxUsernameLength = 64
)
