// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/merchantdesk/internal/platform/constants"
)

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// Each session is a key `auth:session:<jti>` holding the account ID. A set
// `auth:session:account:<accountID>` indexes the sessions of one account so
// they can be revoked together.
type RedisSessionRepository struct {
	client redis.UniversalClient
}

// NewSessionRepository creates a new Redis-backed [SessionRepository].
func NewSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

func accountIndexKey(accountID string) string {
	return constants.RedisPrefixSession + "account:" + accountID
}

/*
Create stores a session with its account ID and TTL.

Parameters:
  - context: context.Context
  - sessionID: string
  - accountID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, sessionID, accountID string, ttl time.Duration) error {
	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(sessionID), accountID, ttl)
	pipe.SAdd(context, accountIndexKey(accountID), sessionID)
	pipe.Expire(context, accountIndexKey(accountID), ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
Exists reports whether a session key is still present.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - bool: true while the session is live
  - error: Connectivity errors
*/
func (repository *RedisSessionRepository) Exists(context context.Context, sessionID string) (bool, error) {
	count, err := repository.client.Exists(context, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_exists_failed: %w", err)
	}
	return count == 1, nil
}

/*
Delete removes one session.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Delete(context context.Context, sessionID string) error {
	if err := repository.client.Del(context, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

/*
DeleteByAccount removes every session of one account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) DeleteByAccount(context context.Context, accountID string) error {
	indexKey := accountIndexKey(accountID)

	sessionIDs, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis_session_index_read_failed: %w", err)
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, indexKey)

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}
	return nil
}
