package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/brand-compiler/internal/config"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/v1/compile", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 10-i-1, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/v1/compile", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	// one token per six seconds
	assert.InDelta(t, 6*time.Second, info.RetryAfter, float64(10*time.Millisecond))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 60; i++ {
		l.Allow("c", "/v1/compile", "POST")
	}
	allowed, _ := l.Allow("c", "/v1/compile", "POST")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/v1/compile", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/v1/compile", "POST")
	assert.False(t, allowed)
}

func TestLimiter_SeparateBuckets(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	allowed, _ := l.Allow("a", "/v1/compile", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("b", "/v1/compile", "POST")
	assert.True(t, allowed, "clients are independent")
	allowed, _ = l.Allow("a", "/v1/tone/mix", "POST")
	assert.True(t, allowed, "endpoints are independent")
	allowed, _ = l.Allow("a", "/v1/compile", "POST")
	assert.False(t, allowed)
}

func TestLimiter_CopyEndpoint(t *testing.T) {
	l, _ := newTestLimiter(NewConfig(config.RateLimitConfig{Enabled: true, PerMinute: 100, CopyPerHour: 3}))
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("c", CopyPath, "POST")
		require.True(t, allowed)
		assert.Equal(t, 3, info.Limit)
	}
	allowed, info := l.Allow("c", CopyPath, "POST")
	assert.False(t, allowed)
	assert.InDelta(t, 20*time.Minute, info.RetryAfter, float64(time.Second))

	allowed, _ = l.Allow("c", "/v1/compile", "POST")
	assert.True(t, allowed)
}

func TestLimiter_DisabledAndLists(t *testing.T) {
	disabled, _ := newTestLimiter(&Config{Enabled: false})
	defer disabled.Stop()
	allowed, _ := disabled.Allow("c", "/v1/compile", "POST")
	assert.True(t, allowed)

	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/v1/compile", "POST")
		assert.True(t, allowed)
	}
	allowed, _ = l.Allow("10.0.0.2", "/v1/compile", "POST")
	assert.False(t, allowed)
	assert.Zero(t, l.Len())
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	l.Allow("old", "/v1/compile", "POST")
	clock.Advance(2 * time.Hour)
	l.Allow("new", "/v1/compile", "POST")
	require.Equal(t, 2, l.Len())

	l.cleanupBuckets(clock.Now().Add(-idleTimeout))
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer l.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := l.Allow("shared", "/v1/compile", "POST"); ok {
					mu.Lock()
					granted++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, granted)
}

func TestLimiter_StopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Allow("c", "/v1/compile", "POST")
	l.Stop()
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: CopyPath, Method: "POST", Limit: 3},
		{Path: "/v1/sprints/", Method: "GET", Limit: 50},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{CopyPath, "POST", 3, false},
		{CopyPath, "GET", 0, true},
		{"/v1/sprints/abc", "GET", 50, false},
		{"/v1/compile", "POST", 0, true},
		{"/health", "GET", 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.RateLimitConfig{
		Enabled:     true,
		PerMinute:   42,
		CopyPerHour: 2,
		Whitelist:   []string{" 127.0.0.1 ", ""},
		Blacklist:   []string{"10.9.9.9"},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, map[string]bool{"127.0.0.1": true}, cfg.Whitelist)
	assert.Equal(t, map[string]bool{"10.9.9.9": true}, cfg.Blacklist)
	require.Len(t, cfg.EndpointConfigs, 1)
	assert.Equal(t, 2, cfg.EndpointConfigs[0].Limit)
	assert.Equal(t, 2, cfg.EndpointConfigs[0].Burst)
}
