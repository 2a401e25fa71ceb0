package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinCapacity(t *testing.T) {
	rl := New(1, 3, time.Hour)
	defer rl.Stop()

	assert.True(t, rl.Allow("user_1"))
	assert.True(t, rl.Allow("user_1"))
	assert.True(t, rl.Allow("user_1"))
	assert.False(t, rl.Allow("user_1"), "bucket exhausted")
}

func TestIdentitiesAreIndependent(t *testing.T) {
	rl := New(1, 1, time.Hour)
	defer rl.Stop()

	assert.True(t, rl.Allow("user_1"))
	assert.False(t, rl.Allow("user_1"))
	assert.True(t, rl.Allow("user_2"), "other identity has its own bucket")
}

func TestRefill(t *testing.T) {
	rl := New(100, 1, time.Hour) // 100 tokens per second
	defer rl.Stop()

	assert.True(t, rl.Allow("user_1"))
	assert.False(t, rl.Allow("user_1"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.Allow("user_1"), "bucket refilled after waiting")
}
