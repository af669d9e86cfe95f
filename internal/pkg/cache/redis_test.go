package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Present int `json:"present"`
}

func TestRedisCache_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := NewRedisCache(db, "attendance:")

		mock.ExpectGet("attendance:dashboard:manager:2024-06-12").SetVal(`{"present":3}`)

		var got snapshot
		ok, err := c.Get(ctx, "dashboard:manager:2024-06-12", &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, got.Present)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := NewRedisCache(db, "")

		mock.ExpectGet("k").RedisNil()

		var got snapshot
		ok, err := c.Get(ctx, "k", &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("backend error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := NewRedisCache(db, "")

		mock.ExpectGet("k").SetErr(errors.New("connection reset"))

		var got snapshot
		ok, err := c.Get(ctx, "k", &got)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		c := NewRedisCache(db, "")

		mock.ExpectGet("k").SetVal("not-json")

		var got snapshot
		_, err := c.Get(ctx, "k", &got)
		assert.Error(t, err)
	})
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db, "attendance:")

	mock.ExpectSet("attendance:k", []byte(`{"present":1}`), 30*time.Second).SetVal("OK")

	err := c.Set(context.Background(), "k", snapshot{Present: 1}, 30*time.Second)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCache(db, "attendance:")

	mock.ExpectDel("attendance:a", "attendance:b").SetVal(2)

	require.NoError(t, c.Delete(context.Background(), "a", "b"))
	require.NoError(t, c.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", snapshot{Present: 1}, time.Minute))

	var got snapshot
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
}
