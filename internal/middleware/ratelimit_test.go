package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	l := NewInMemoryRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, l.Allow("1.2.3.4"))
	// A different key has its own budget.
	assert.True(t, l.Allow("5.6.7.8"))
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	l := NewInMemoryRateLimiter(1, 20*time.Millisecond)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("k"))
}
