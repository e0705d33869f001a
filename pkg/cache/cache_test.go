package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})   {}
func (nopLogger) Error(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{})  {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := &Config{Host: mr.Host(), Port: mustPort(t, mr.Port())}
	setRedisDefaults(cfg)
	c, err := NewRedisCache(cfg, nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func mustPort(t *testing.T, p string) int {
	t.Helper()
	port, err := strconv.Atoi(p)
	require.NoError(t, err)
	return port
}

type sample struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

func TestRedisCache_JSONRoundTripAndExpiry(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	in := sample{Name: "Fireball", Steps: []string{"gather", "release"}}
	require.NoError(t, SetJSON(c, ctx, Key("spell", "1"), in, time.Minute))

	var out sample
	require.NoError(t, GetJSON(c, ctx, "spell:1", &out))
	assert.Equal(t, in, out)

	mr.FastForward(2 * time.Minute)
	err := GetJSON(c, ctx, "spell:1", &out)
	assert.True(t, IsNotFound(err))
}

func TestRedisCache_IncrementKeepsWindow(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "rl:a", 1, 10*time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	mr.FastForward(6 * time.Second)
	n, err = c.Increment(ctx, "rl:a", 1, 10*time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	mr.FastForward(5 * time.Second)
	exists, err := c.Exists(ctx, "rl:a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_DeleteAndTTL(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	ttl, err := c.GetTTL(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = c.GetTTL(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryCache_Basics(t *testing.T) {
	c := NewMemoryCache(&Config{MaxSize: 2}, nopLogger{})
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 20*time.Millisecond))
	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	time.Sleep(30 * time.Millisecond)
	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	n, err := c.Increment(ctx, "ctr", 2, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = c.Increment(ctx, "ctr", 3, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestMemoryCache_EvictsOldestWhenFull(t *testing.T) {
	c := NewMemoryCache(&Config{MaxSize: 2}, nopLogger{})
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "first", []byte("1"), time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "second", []byte("2"), time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "third", []byte("3"), time.Minute))

	ok, _ := c.Exists(ctx, "first")
	assert.False(t, ok)
	ok, _ = c.Exists(ctx, "third")
	assert.True(t, ok)
}

func TestFactory_UnknownProvider(t *testing.T) {
	_, err := NewCacheFactory(nopLogger{}).CreateCache("memcached", &Config{})
	assert.Error(t, err)
}
