package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetExpire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New[string, int](ctx, 50*time.Millisecond)
	c.Set("height", 7)

	v, ok := c.Get("height")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	time.Sleep(80 * time.Millisecond)
	_, ok = c.Get("height")
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c := New[string, string](context.Background(), time.Minute)
	c.Set("network", "cosvm_1")
	c.Delete("network")

	_, ok := c.Get("network")
	assert.False(t, ok)
}
