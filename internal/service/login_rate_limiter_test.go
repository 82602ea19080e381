package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestLoginRateLimiter_CountsOnlyFailures(t *testing.T) {
	l := NewLoginRateLimiter(time.Minute, 2, func() time.Time { return fixedNow })

	for i := 0; i < 5; i++ {
		if !l.Allow("john@doe.com") {
			t.Fatalf("Allow must not consume attempts (call %d)", i+1)
		}
	}

	l.Fail("john@doe.com")
	if !l.Allow("john@doe.com") {
		t.Fatalf("expected allow after one failure")
	}
	l.Fail(" JOHN@doe.com ")
	if l.Allow("john@doe.com") {
		t.Fatalf("expected deny after two failures")
	}
	if !l.Allow("other@doe.com") {
		t.Fatalf("expected other key to be allowed")
	}

	l.Reset("John@Doe.com")
	if !l.Allow("john@doe.com") {
		t.Fatalf("expected allow after reset")
	}
}

func TestLoginRateLimiter_WindowExpiresFailures(t *testing.T) {
	now := fixedNow
	l := NewLoginRateLimiter(time.Minute, 1, func() time.Time { return now })

	l.Fail("john@doe.com")
	if l.Allow("john@doe.com") {
		t.Fatalf("expected deny inside window")
	}
	now = now.Add(61 * time.Second)
	if !l.Allow("john@doe.com") {
		t.Fatalf("expected allow after window")
	}
}

func TestLoginRateLimiter_DropsEmptyKeys(t *testing.T) {
	now := fixedNow
	l := NewLoginRateLimiter(time.Minute, 3, func() time.Time { return now }).(*loginRateLimiter)

	l.Fail("a@doe.com")
	l.Fail("b@doe.com")
	l.Reset("a@doe.com")
	if _, ok := l.failures["a@doe.com"]; ok {
		t.Fatalf("expected reset key to be removed")
	}

	now = now.Add(2 * time.Minute)
	l.Allow("b@doe.com")
	l.Allow("never@doe.com")
	if len(l.failures) != 0 {
		t.Fatalf("expected expired and unknown keys to be removed, got %d", len(l.failures))
	}
}

type mockRedisLimiterClient struct {
	values     map[string]string
	getErr     error
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	deleted    []string
}

func newMockRedisLimiterClient() *mockRedisLimiterClient {
	return &mockRedisLimiterClient{values: make(map[string]string)}
}

func (m *mockRedisLimiterClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedisLimiterClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.values, k)
	}
	m.deleted = append(m.deleted, keys...)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func (m *mockRedisLimiterClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	cmd.SetVal(int64(1))
	return cmd
}

func newTestRedisLimiter(client redisLimiterClient, window time.Duration, max int) *redisLoginRateLimiter {
	return &redisLoginRateLimiter{client: client, window: window, max: max, prefix: "login:fail:"}
}

func TestRedisLoginRateLimiter(t *testing.T) {
	t.Run("nil receiver fails open", func(t *testing.T) {
		var l *redisLoginRateLimiter
		if !l.Allow("john@doe.com") {
			t.Fatalf("expected fail-open for nil limiter")
		}
		l.Fail("john@doe.com")
		l.Reset("john@doe.com")
	})

	t.Run("no failures recorded", func(t *testing.T) {
		l := newTestRedisLimiter(newMockRedisLimiterClient(), time.Minute, 3)
		if !l.Allow("john@doe.com") {
			t.Fatalf("expected allow when key is absent")
		}
	})

	t.Run("gates on failure count", func(t *testing.T) {
		client := newMockRedisLimiterClient()
		l := newTestRedisLimiter(client, time.Minute, 3)
		client.values["login:fail:john@doe.com"] = "2"
		if !l.Allow(" John@Doe.com ") {
			t.Fatalf("expected allow below max")
		}
		client.values["login:fail:john@doe.com"] = "3"
		if l.Allow("john@doe.com") {
			t.Fatalf("expected deny at max")
		}
	})

	t.Run("fail increments with window ttl", func(t *testing.T) {
		client := newMockRedisLimiterClient()
		l := newTestRedisLimiter(client, 2*time.Minute, 3)
		l.Fail(" John@Doe.com ")
		if client.lastScript != redisLoginFailScript {
			t.Fatalf("expected fail script")
		}
		if len(client.lastKeys) != 1 || client.lastKeys[0] != "login:fail:john@doe.com" {
			t.Fatalf("unexpected key normalization, got %+v", client.lastKeys)
		}
		if len(client.lastArgs) != 1 || client.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", client.lastArgs)
		}
	})

	t.Run("reset deletes counter", func(t *testing.T) {
		client := newMockRedisLimiterClient()
		client.values["login:fail:john@doe.com"] = "3"
		l := newTestRedisLimiter(client, time.Minute, 3)
		l.Reset("john@doe.com")
		if len(client.deleted) != 1 || client.deleted[0] != "login:fail:john@doe.com" {
			t.Fatalf("expected counter deleted, got %+v", client.deleted)
		}
		if !l.Allow("john@doe.com") {
			t.Fatalf("expected allow after reset")
		}
	})

	t.Run("redis error fails open", func(t *testing.T) {
		client := newMockRedisLimiterClient()
		client.getErr = errors.New("redis down")
		l := newTestRedisLimiter(client, time.Minute, 3)
		if !l.Allow("john@doe.com") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})

	t.Run("empty key ignored", func(t *testing.T) {
		client := newMockRedisLimiterClient()
		l := newTestRedisLimiter(client, time.Minute, 3)
		l.Fail("   ")
		if client.lastScript != "" {
			t.Fatalf("expected no redis call for empty key")
		}
	})
}
