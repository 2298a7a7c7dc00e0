// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/constants"
)

// expiredTokenGrace keeps a token readable for a window after its logical
// expiry, so a late refresh attempt gets TOKEN_EXPIRED instead of the less
// helpful NOT_FOUND. After the grace window Redis drops the keys itself.
const expiredTokenGrace = 24 * time.Hour

// issueRetryLimit bounds the optimistic retries when concurrent logins for
// the same account race on the owner index.
const issueRetryLimit = 100

// RedisRefreshTokenStore implements RefreshTokenStore using Redis.
//
// # Key Layout
//
// Two keys per live token, written and deleted together:
//
//	auth:refresh_token:<value> -> JSON-encoded RefreshToken
//	auth:refresh_owner:<id>    -> <value>
//
// The owner index is what makes the one-live-token invariant cheap: issuing
// looks up the owner's current token by ID instead of scanning.
type RedisRefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore creates a new Redis-backed RefreshTokenStore.
func NewRefreshTokenStore(client *redis.Client) *RedisRefreshTokenStore {
	return &RedisRefreshTokenStore{client: client}
}

/*
Issue stores a fresh token and destroys the owner's previous one atomically.

Description: Runs the read-modify-write under WATCH on the owner index: the
owner's current token value is read inside the watched function and the
delete+set pair only commits if no other client touched the index in
between. A concurrent login invalidates the transaction and the whole
sequence retries, so whichever login commits last owns the single surviving
token and no orphaned token key is left behind.

Parameters:
  - context: context.Context
  - token: *RefreshToken

Returns:
  - error: Execution errors, or retry exhaustion under pathological contention
*/
func (store *RedisRefreshTokenStore) Issue(context context.Context, token *RefreshToken) error {
	tokenKey := constants.RedisPrefixRefreshToken + token.Value
	ownerKey := fmt.Sprintf("%s%d", constants.RedisPrefixRefreshOwner, token.OwnerID)

	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("redis_refresh_token_encode_failed: %w", err)
	}

	ttl := time.Until(token.ExpiresAt) + expiredTokenGrace

	replace := func(tx *redis.Tx) error {
		previousValue, err := tx.Get(context, ownerKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis_refresh_token_owner_lookup_failed: %w", err)
		}

		_, err = tx.TxPipelined(context, func(pipe redis.Pipeliner) error {
			if previousValue != "" && previousValue != token.Value {
				pipe.Del(context, constants.RedisPrefixRefreshToken+previousValue)
			}
			pipe.Set(context, tokenKey, payload, ttl)
			pipe.Set(context, ownerKey, token.Value, ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < issueRetryLimit; attempt++ {
		err = store.client.Watch(context, replace, ownerKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	if err != nil {
		return fmt.Errorf("redis_refresh_token_issue_failed: %w", err)
	}

	return nil
}

/*
Find resolves a presented token value into the stored entity.

Description: Returns apperr.NotFound if the token is absent (never issued,
revoked, rotated away, or past the grace window).

Parameters:
  - context: context.Context
  - value: string

Returns:
  - *RefreshToken: Stored token with owner and expiry
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisRefreshTokenStore) Find(context context.Context, value string) (*RefreshToken, error) {
	tokenKey := constants.RedisPrefixRefreshToken + value

	payload, err := store.client.Get(context, tokenKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("redis_refresh_token_find_failed: %w", err)
	}

	token := &RefreshToken{}
	if err := json.Unmarshal(payload, token); err != nil {
		return nil, fmt.Errorf("redis_refresh_token_decode_failed: %w", err)
	}

	return token, nil
}

/*
Revoke removes a token and its owner index entry.

Description: The owner index is only cleared when it still points at this
token, so revoking a stale token never kills a newer one.

Parameters:
  - context: context.Context
  - token: *RefreshToken

Returns:
  - error: Deletion failures
*/
func (store *RedisRefreshTokenStore) Revoke(context context.Context, token *RefreshToken) error {
	tokenKey := constants.RedisPrefixRefreshToken + token.Value
	ownerKey := fmt.Sprintf("%s%d", constants.RedisPrefixRefreshOwner, token.OwnerID)

	currentValue, err := store.client.Get(context, ownerKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_refresh_token_revoke_lookup_failed: %w", err)
	}

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, tokenKey)
		if currentValue == token.Value {
			pipe.Del(context, ownerKey)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("redis_refresh_token_revoke_failed: %w", err)
	}

	return nil
}
