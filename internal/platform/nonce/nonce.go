// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package nonce issues and verifies single-use form tokens backed by Redis.
//
// # Architecture
//
// Override save endpoints are guarded by a token tied to a scope string
// ("post:<id>" or "term:<id>"). Tokens are consumed atomically on
// verification via GETDEL, so a token can never authorize two submissions.
package nonce

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/polyglot/internal/platform/apperr"
	"github.com/taibuivan/polyglot/internal/platform/constants"
	"github.com/taibuivan/polyglot/pkg/uuidv7"
)

// Service issues and verifies scoped single-use form tokens.
type Service struct {
	client *redis.Client
}

// NewService creates a Redis-backed nonce service.
func NewService(client *redis.Client) *Service {
	return &Service{client: client}
}

// key builds the Redis key for a scope/token pair.
func key(scope, token string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixFormToken, scope, token)
}

/*
Issue creates a new single-use token for the given scope.

Parameters:
  - context: context.Context
  - scope: string (e.g. "post:<uuid>")

Returns:
  - string: The opaque token to embed in the edit form
  - error: Storage failures
*/
func (service *Service) Issue(context context.Context, scope string) (string, error) {

	// Opaque random token
	token := uuidv7.New()

	// Store the marker value with TTL
	if err := service.client.Set(context, key(scope, token), "1", constants.FormTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("redis_form_token_set_failed: %w", err)
	}

	return token, nil
}

/*
Verify consumes a token for the given scope.

Description: The token is deleted atomically on read (GETDEL); a second
verification of the same token always fails. Returns apperr.Forbidden if the
token is absent, expired, or scoped to a different entity.

Parameters:
  - context: context.Context
  - scope: string
  - token: string

Returns:
  - error: apperr.Forbidden or connectivity errors
*/
func (service *Service) Verify(context context.Context, scope, token string) error {
	if token == "" {
		return apperr.Forbidden("Form token is required")
	}

	_, err := service.client.GetDel(context, key(scope, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.Forbidden("Form token is invalid or expired")
		}
		return fmt.Errorf("redis_form_token_verify_failed: %w", err)
	}

	return nil
}
