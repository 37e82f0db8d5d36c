// Package throttle rate-limits login attempts per client address.
package throttle

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MsgTooManyAttempts is returned to throttled clients.
const MsgTooManyAttempts = "too many login attempts, please wait a minute"

// PeerLimiter holds one token bucket per client key. Buckets that have been
// idle for longer than idleTTL are dropped.
type PeerLimiter struct {
	perMinute int

	mu       sync.Mutex
	limiters map[string]*entry
	idleTTL  time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPeerLimiter allows perMinute attempts per key, refilled evenly over the
// minute. A non-positive perMinute disables throttling.
func NewPeerLimiter(perMinute int) *PeerLimiter {
	return &PeerLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*entry),
		idleTTL:   10 * time.Minute,
		now:       time.Now,
	}
}

// Allow reports whether key may make another attempt now.
func (l *PeerLimiter) Allow(key string) bool {
	if l == nil || l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, k)
		}
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// HostKey reduces a "host:port" address to its host.
func HostKey(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
