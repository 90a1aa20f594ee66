package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/infrastructure/logger"
)

var _ scs.CtxStore = (*Store)(nil)

type fakeRedis struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestStore_RoundTrip(t *testing.T) {
	fake := newFakeRedis()
	store := NewStore(fake, logger.New("test"))
	ctx := context.Background()

	_, found, err := store.FindCtx(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.CommitCtx(ctx, "abc", []byte("payload"), time.Now().Add(time.Hour)))
	assert.Contains(t, fake.data, "session:abc")
	assert.Greater(t, fake.ttls["session:abc"], 59*time.Minute)

	b, found, err := store.Find("abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), b)

	require.NoError(t, store.Delete("abc"))
	_, found, err = store.FindCtx(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_ExpiredCommitDeletes(t *testing.T) {
	fake := newFakeRedis()
	fake.data["session:old"] = "x"
	store := NewStore(fake, logger.New("test"))

	require.NoError(t, store.Commit("old", []byte("y"), time.Now().Add(-time.Second)))
	assert.NotContains(t, fake.data, "session:old")
}

func TestStore_Errors(t *testing.T) {
	fake := newFakeRedis()
	fake.err = errors.New("connection refused")
	store := NewStore(fake, logger.New("test"))
	ctx := context.Background()

	_, _, err := store.FindCtx(ctx, "abc")
	assert.Error(t, err)
	assert.Error(t, store.CommitCtx(ctx, "abc", []byte("x"), time.Now().Add(time.Hour)))
	assert.Error(t, store.DeleteCtx(ctx, "abc"))
}
