// Package session stores opaque bearer tokens in Redis. Only a SHA-256
// digest of each token is used as key, so a Redis dump does not leak
// usable credentials.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
	tokenBytes           = 32
)

var (
	ErrSessionExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Session is invalid or has expired",
		http.StatusUnauthorized,
	).WithReason("SESSION_EXPIRED")
	ErrMissingToken = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	).WithReason("TOKEN_MISSING")
)

// Principal is what a valid token resolves to.
type Principal struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

//go:generate mockgen -source=session.go -destination=mock/session_mock.go -package=mock
type Store interface {
	Issue(ctx context.Context, userID, role string) (token string, p Principal, err error)
	Validate(ctx context.Context, token string) (Principal, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID string) error
	RevokeOthers(ctx context.Context, userID, keepToken string) error
}

type redisStore struct {
	rdb      *redis.Client
	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
	logger   *zap.Logger
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Store {
	l := zap.L().Named("session.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.store")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisStore{rdb: rdb, ttl: ttl, now: time.Now, newToken: newToken, logger: l}
}

func SessionKey(token string) string {
	return sessionKeyPrefix + digest(token)
}

func UserSessionsKey(userID string) string {
	return userSessionKeyPrefix + userID
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *redisStore) Issue(ctx context.Context, userID, role string) (string, Principal, error) {
	token, err := s.newToken()
	if err != nil {
		return "", Principal{}, err
	}

	now := s.now().UTC()
	p := Principal{
		UserID:    userID,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return "", Principal{}, err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, SessionKey(token), payload, s.ttl)
	pipe.SAdd(ctx, UserSessionsKey(userID), digest(token))
	pipe.Expire(ctx, UserSessionsKey(userID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("issue session failed", zap.String("user_id", userID), zap.Error(err))
		return "", Principal{}, err
	}

	return token, p, nil
}

func (s *redisStore) Validate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrMissingToken
	}

	raw, err := s.rdb.Get(ctx, SessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Principal{}, ErrSessionExpired
		}
		return Principal{}, err
	}

	var p Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return Principal{}, ErrSessionExpired
	}
	if !p.ExpiresAt.IsZero() && s.now().After(p.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}
	return p, nil
}

func (s *redisStore) Revoke(ctx context.Context, token string) error {
	key := SessionKey(token)
	raw, err := s.rdb.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	var p Principal
	if json.Unmarshal(raw, &p) == nil && p.UserID != "" {
		if err := s.rdb.SRem(ctx, UserSessionsKey(p.UserID), digest(token)).Err(); err != nil {
			s.logger.Warn("remove session from user index failed", zap.String("user_id", p.UserID), zap.Error(err))
		}
	}
	return nil
}

func (s *redisStore) RevokeAll(ctx context.Context, userID string) error {
	return s.revoke(ctx, userID, "")
}

// RevokeOthers drops every session of userID except keepToken.
func (s *redisStore) RevokeOthers(ctx context.Context, userID, keepToken string) error {
	if keepToken == "" {
		return s.revoke(ctx, userID, "")
	}
	return s.revoke(ctx, userID, digest(keepToken))
}

func (s *redisStore) revoke(ctx context.Context, userID, keepDigest string) error {
	setKey := UserSessionsKey(userID)
	digests, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	keys := make([]string, 0, len(digests)+1)
	for _, d := range digests {
		if d == keepDigest {
			continue
		}
		keys = append(keys, sessionKeyPrefix+d)
	}

	if keepDigest == "" {
		keys = append(keys, setKey)
		return s.rdb.Del(ctx, keys...).Err()
	}
	if len(keys) == 0 {
		return nil
	}

	members := make([]any, 0, len(keys))
	for _, k := range keys {
		members = append(members, k[len(sessionKeyPrefix):])
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, setKey, members...)
	_, err = pipe.Exec(ctx)
	return err
}
