// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/pinpoint/internal/platform/constants"
)

// RedisTouchThrottle implements [TouchThrottle] with one expiring key per session.
type RedisTouchThrottle struct {
	client *redis.Client
}

// NewTouchThrottle creates a Redis-backed [TouchThrottle].
func NewTouchThrottle(client *redis.Client) *RedisTouchThrottle {
	return &RedisTouchThrottle{client: client}
}

/*
Allow claims the touch slot for a session.

Description: SET NX with a TTL of interval; only the first caller inside the
window gets true, across every API instance sharing the Redis.

Returns:
  - bool: Whether the caller should write last_seen_at
  - error: Connectivity errors
*/
func (throttle *RedisTouchThrottle) Allow(ctx context.Context, hash string, interval time.Duration) (bool, error) {
	key := constants.RedisPrefixSessionTouch + hash

	claimed, err := throttle.client.SetNX(ctx, key, 1, interval).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_touch_claim_failed: %w", err)
	}

	return claimed, nil
}
