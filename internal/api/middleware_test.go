package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityLimiterPerKeyBuckets(t *testing.T) {
	l := newIdentityLimiter(1, 1)

	assert.True(t, l.Allow("t1/"))
	assert.False(t, l.Allow("t1/"), "second hit on the same identity exceeds the burst")
	assert.True(t, l.Allow("t2/"), "other identities keep their own bucket")
}

func TestIdentityLimiterMapStaysBounded(t *testing.T) {
	l := newIdentityLimiter(1, 1)

	for i := 0; i < maxTrackedIdentities+100; i++ {
		l.Allow(fmt.Sprintf("tenant-%d/", i))
	}

	l.mu.Lock()
	tracked := len(l.limiters)
	l.mu.Unlock()
	assert.LessOrEqual(t, tracked, maxTrackedIdentities)
}
