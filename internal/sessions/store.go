package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkotenko/user-accounts/internal/logger"
)

// Validity is how long a token stays usable after it was last presented.
const Validity = 7 * 24 * time.Hour

// ErrTokenNotFound is returned when a token is absent or expired.
var ErrTokenNotFound = errors.New("token not found")

const (
	tokenKeyPrefix   = "session:"
	userSetKeyPrefix = "user_sessions:"
)

// record is the stored value of one session token.
type record struct {
	UserID     int64     `json:"user_id"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// Store persists opaque session tokens in Redis. Expiry is carried in
// last_used_at rather than key TTLs so lazy expiry in Resolve, the
// periodic sweep and tests all share one predicate.
type Store struct {
	rdb *redis.Client
	now func() time.Time
}

// NewStore creates a Store on the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

// newToken returns 32 random bytes hex-encoded: fixed length, unguessable.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

func userSetKey(userID int64) string {
	return fmt.Sprintf("%s%d", userSetKeyPrefix, userID)
}

// Issue creates a fresh token bound to userID with last_used_at = now.
func (s *Store) Issue(ctx context.Context, userID int64) (string, error) {
	for {
		token, err := newToken()
		if err != nil {
			return "", err
		}

		payload, err := json.Marshal(record{UserID: userID, LastUsedAt: s.now()})
		if err != nil {
			return "", err
		}

		// SETNX guards token uniqueness at the storage level.
		ok, err := s.rdb.SetNX(ctx, tokenKey(token), payload, 0).Result()
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}

		if err := s.rdb.SAdd(ctx, userSetKey(userID), token).Err(); err != nil {
			s.rdb.Del(ctx, tokenKey(token))
			return "", err
		}
		return token, nil
	}
}

// Resolve looks up a token. An absent or expired token yields
// ErrTokenNotFound; an expired one is deleted on the spot. A valid hit
// refreshes last_used_at to now.
func (s *Store) Resolve(ctx context.Context, token string) (int64, error) {
	payload, err := s.rdb.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		// Unreadable entries are as good as expired.
		s.delete(ctx, token, 0)
		return 0, ErrTokenNotFound
	}

	if s.now().Sub(rec.LastUsedAt) > Validity {
		s.delete(ctx, token, rec.UserID)
		return 0, ErrTokenNotFound
	}

	rec.LastUsedAt = s.now()
	refreshed, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	if err := s.rdb.Set(ctx, tokenKey(token), refreshed, 0).Err(); err != nil {
		return 0, err
	}
	return rec.UserID, nil
}

// Revoke deletes a token. Absence is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	payload, err := s.rdb.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	var rec record
	if err := json.Unmarshal(payload, &rec); err == nil {
		return s.delete(ctx, token, rec.UserID)
	}
	return s.delete(ctx, token, 0)
}

// RevokeAll deletes every token owned by userID.
func (s *Store) RevokeAll(ctx context.Context, userID int64) error {
	tokens, err := s.rdb.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := s.rdb.Del(ctx, tokenKey(token)).Err(); err != nil {
			return err
		}
	}
	return s.rdb.Del(ctx, userSetKey(userID)).Err()
}

// SweepExpired scans all stored tokens and deletes those not used
// within the validity window. Returns the number of deleted tokens.
// Safe to run concurrently with Resolve: both converge on deleting an
// expired entry.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	var deleted int
	iter := s.rdb.Scan(ctx, 0, tokenKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		payload, err := s.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return deleted, err
		}

		var rec record
		if err := json.Unmarshal(payload, &rec); err != nil {
			logger.Log.Warnw("dropping unreadable session entry", "key", key)
			s.rdb.Del(ctx, key)
			deleted++
			continue
		}
		if s.now().Sub(rec.LastUsedAt) > Validity {
			token := key[len(tokenKeyPrefix):]
			if err := s.delete(ctx, token, rec.UserID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// delete removes a token and its membership in the owner set.
func (s *Store) delete(ctx context.Context, token string, userID int64) error {
	if err := s.rdb.Del(ctx, tokenKey(token)).Err(); err != nil {
		return err
	}
	if userID != 0 {
		if err := s.rdb.SRem(ctx, userSetKey(userID), token).Err(); err != nil {
			return err
		}
	}
	return nil
}
