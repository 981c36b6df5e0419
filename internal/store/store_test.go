package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rs, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	return mr, rs
}

// exerciseStore runs the contract every DocumentStore backend must meet.
func exerciseStore(t *testing.T, s DocumentStore) {
	ctx := context.Background()
	key := Key("alice", KindHistory)

	var got doc
	assert.ErrorIs(t, s.Load(ctx, key, &got), ErrNotFound)

	require.NoError(t, s.Save(ctx, key, doc{Name: "a", Items: []string{"x", "y"}}))
	require.NoError(t, s.Load(ctx, key, &got))
	assert.Equal(t, doc{Name: "a", Items: []string{"x", "y"}}, got)

	// saved values are copies
	got.Items[0] = "mutated"
	var again doc
	require.NoError(t, s.Load(ctx, key, &again))
	assert.Equal(t, "x", again.Items[0])

	require.NoError(t, s.Save(ctx, key, doc{Name: "b"}))
	var replaced doc
	require.NoError(t, s.Load(ctx, key, &replaced))
	assert.Equal(t, "b", replaced.Name)

	var other doc
	assert.ErrorIs(t, s.Load(ctx, Key("bob", KindHistory), &other), ErrNotFound)

	require.NoError(t, s.Delete(ctx, key))
	assert.ErrorIs(t, s.Load(ctx, key, &got), ErrNotFound)
	require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "promptsmith:guest:settings", Key("guest", KindSettings))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, "memory", s.Name())
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	_, s := setupTestRedis(t)
	assert.Equal(t, "redis", s.Name())
	exerciseStore(t, s)
}

func TestRedisStore_WritesJSONUnderKey(t *testing.T) {
	mr, s := setupTestRedis(t)

	require.NoError(t, s.Save(context.Background(), Key("u1", KindRatings), map[string]int{"tmpl-1": 4}))
	raw, err := mr.Get("promptsmith:u1:ratings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"tmpl-1":4}`, raw)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	mr, s := setupTestRedis(t)
	require.NoError(t, mr.Set(Key("u1", KindHistory), "{not json"))

	var got doc
	err := s.Load(context.Background(), Key("u1", KindHistory), &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}
