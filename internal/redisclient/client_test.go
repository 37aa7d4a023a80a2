package redisclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("REDIS_POOL_SIZE", "4")

	cfg := NewConfigFromEnv()
	assert.Equal(t, "redis://localhost:6379/2", cfg.URL)
	assert.Equal(t, 4, cfg.PoolSize)
}

func TestNewWithoutURL(t *testing.T) {
	client, err := New(context.Background(), &Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewWithInvalidURL(t *testing.T) {
	_, err := New(context.Background(), &Config{URL: "not a url"})
	assert.Error(t, err)
}
