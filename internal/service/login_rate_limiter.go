package service

import (
	"strings"
	"sync"
	"time"
)

// LoginRateLimiter bloquea un email tras demasiados logins fallidos dentro de la ventana.
// Allow no registra nada; solo Fail suma intentos y Reset los descarta tras un login correcto.
type LoginRateLimiter interface {
	Allow(key string) bool
	Fail(key string)
	Reset(key string)
}

type loginRateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	max      int
	now      Clock
	failures map[string][]time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria.
func NewLoginRateLimiter(window time.Duration, max int, clock Clock) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window:   window,
		max:      max,
		now:      clockOrSystem(clock),
		failures: make(map[string][]time.Time),
	}
}

func (l *loginRateLimiter) Allow(key string) bool {
	key = limiterKey(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(key)) < l.max
}

func (l *loginRateLimiter) Fail(key string) {
	key = limiterKey(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key] = append(l.prune(key), l.now())
}

func (l *loginRateLimiter) Reset(key string) {
	key = limiterKey(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
}

// prune descarta fallos fuera de la ventana y borra la clave si no queda ninguno.
// Requiere l.mu tomado.
func (l *loginRateLimiter) prune(key string) []time.Time {
	cutoff := l.now().Add(-l.window)
	entries := l.failures[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = kept
	return kept
}

func limiterKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
