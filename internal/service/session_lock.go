package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionLocker serializa el read-modify-write de participantes por sesion.
type SessionLocker interface {
	Lock(ctx context.Context, sessionID int64) (unlock func(), err error)
}

var ErrLockTimeout = errors.New("session lock timeout")

type memoryLockEntry struct {
	ch   chan struct{}
	refs int
}

type memorySessionLocker struct {
	mu      sync.Mutex
	entries map[int64]*memoryLockEntry
}

// NewMemorySessionLocker crea un locker en proceso, valido para una sola instancia.
func NewMemorySessionLocker() SessionLocker {
	return &memorySessionLocker{entries: make(map[int64]*memoryLockEntry)}
}

func (l *memorySessionLocker) Lock(ctx context.Context, sessionID int64) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[sessionID]
	if !ok {
		entry = &memoryLockEntry{ch: make(chan struct{}, 1)}
		l.entries[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(sessionID, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(sessionID, entry)
		})
	}, nil
}

func (l *memorySessionLocker) release(sessionID int64, entry *memoryLockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, sessionID)
	}
}

const redisUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisSessionLocker struct {
	client     redisLockClient
	ttl        time.Duration
	retryDelay time.Duration
	maxWait    time.Duration
	prefix     string
}

// NewRedisSessionLocker crea un lock distribuido con SET NX PX; el TTL acota cuanto
// puede quedar tomado si el proceso muere.
func NewRedisSessionLocker(client *redis.Client, ttl time.Duration) SessionLocker {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &redisSessionLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 25 * time.Millisecond,
		maxWait:    ttl,
		prefix:     "session:lock:",
	}
}

func (l *redisSessionLocker) Lock(ctx context.Context, sessionID int64) (func(), error) {
	key := l.prefix + strconv.FormatInt(sessionID, 10)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(l.retryDelay):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer releaseCancel()
			_ = l.client.Eval(releaseCtx, redisUnlockScript, []string{key}, token).Err()
		})
	}, nil
}
