package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*redisStore, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	s := NewRedisStore(rdb, 24*time.Hour).(*redisStore)
	s.now = func() time.Time { return fixedNow }
	s.newToken = func() (string, error) { return "tok-123", nil }
	return s, mock
}

func TestRedisStore_Issue(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	want := Principal{UserID: "u1", Role: "hr", IssuedAt: fixedNow, ExpiresAt: fixedNow.Add(24 * time.Hour)}
	payload, _ := json.Marshal(want)

	mock.ExpectTxPipeline()
	mock.ExpectSet(SessionKey("tok-123"), payload, 24*time.Hour).SetVal("OK")
	mock.ExpectSAdd(UserSessionsKey("u1"), digest("tok-123")).SetVal(1)
	mock.ExpectExpire(UserSessionsKey("u1"), 24*time.Hour).SetVal(true)
	mock.ExpectTxPipelineExec()

	token, p, err := s.Issue(ctx, "u1", "hr")

	assert.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, want, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, mock := newTestStore(t)
		p := Principal{UserID: "u1", Role: "employee", IssuedAt: fixedNow, ExpiresAt: fixedNow.Add(time.Hour)}
		payload, _ := json.Marshal(p)
		mock.ExpectGet(SessionKey("tok")).SetVal(string(payload))

		got, err := s.Validate(ctx, "tok")

		assert.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "employee", got.Role)
	})

	t.Run("unknown token", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectGet(SessionKey("tok")).RedisNil()

		_, err := s.Validate(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("expired by clock", func(t *testing.T) {
		s, mock := newTestStore(t)
		p := Principal{UserID: "u1", ExpiresAt: fixedNow.Add(-time.Second)}
		payload, _ := json.Marshal(p)
		mock.ExpectGet(SessionKey("tok")).SetVal(string(payload))

		_, err := s.Validate(ctx, "tok")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("missing token", func(t *testing.T) {
		s, _ := newTestStore(t)
		_, err := s.Validate(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("redis down", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectGet(SessionKey("tok")).SetErr(errors.New("connection refused"))

		_, err := s.Validate(ctx, "tok")
		assert.EqualError(t, err, "connection refused")
	})
}

func TestRedisStore_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("removes session and index entry", func(t *testing.T) {
		s, mock := newTestStore(t)
		payload, _ := json.Marshal(Principal{UserID: "u1"})
		mock.ExpectGetDel(SessionKey("tok")).SetVal(string(payload))
		mock.ExpectSRem(UserSessionsKey("u1"), digest("tok")).SetVal(1)

		assert.NoError(t, s.Revoke(ctx, "tok"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already gone", func(t *testing.T) {
		s, mock := newTestStore(t)
		mock.ExpectGetDel(SessionKey("tok")).RedisNil()

		assert.NoError(t, s.Revoke(ctx, "tok"))
	})
}

func TestRedisStore_RevokeAll(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	mock.ExpectSMembers(UserSessionsKey("u1")).SetVal([]string{"d1", "d2"})
	mock.ExpectDel("session:d1", "session:d2", UserSessionsKey("u1")).SetVal(3)

	assert.NoError(t, s.RevokeAll(ctx, "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDigestIsStable(t *testing.T) {
	assert.Equal(t, digest("abc"), digest("abc"))
	assert.NotEqual(t, digest("abc"), digest("abd"))
	assert.Len(t, digest("abc"), 64)
}

func TestRedisStore_RevokeOthers(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()
	keep := digest("current")

	mock.ExpectSMembers(UserSessionsKey("u1")).SetVal([]string{"d1", keep})
	mock.ExpectTxPipeline()
	mock.ExpectDel("session:d1").SetVal(1)
	mock.ExpectSRem(UserSessionsKey("u1"), "d1").SetVal(1)
	mock.ExpectTxPipelineExec()

	assert.NoError(t, s.RevokeOthers(ctx, "u1", "current"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_RevokeOthers_NothingToRevoke(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectSMembers(UserSessionsKey("u1")).SetVal([]string{digest("current")})

	assert.NoError(t, s.RevokeOthers(context.Background(), "u1", "current"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
