package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("wsdl", "https://a")
	b := Key("wsdl", "https://b")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key("wsdl", "https://a"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Contains(t, a, "netsuite:")
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("payload")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'X'

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(got))
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Close(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Close(ctx))
	assert.Equal(t, 0, c.Len())
}

func exerciseCache(t *testing.T, c Cache) {
	ctx := context.Background()
	key := Key("test", uuid.New().String())

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte("first"), time.Minute))
	require.NoError(t, c.Set(ctx, key, []byte("second"), time.Minute))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(got))
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("NETSUITE_TEST_REDIS")
	if url == "" {
		t.Skip("NETSUITE_TEST_REDIS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCacheFromURL(ctx, url, WithRedisPrefix("go-netsuite-test:"))
	require.NoError(t, err)
	defer c.Close(ctx)

	assert.Equal(t, "go-netsuite-test:k", c.key("k"))
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("NETSUITE_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("NETSUITE_TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewMongoCache(ctx, &MongoConfig{URI: uri, Database: "go_netsuite_test"})
	require.NoError(t, err)
	defer c.Close(ctx)

	exerciseCache(t, c)

	key := Key("expired", uuid.New().String())
	require.NoError(t, c.Set(ctx, key, []byte("v"), time.Millisecond))
	c.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
