package middleware

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("too many attempts, try again later")

// RateLimiter hands out one token bucket per client address.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*peerLimiter

	stop chan struct{}
	once sync.Once
}

type peerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows burst requests at once per address and refills at
// perSecond. Idle addresses are forgotten after ten minutes.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*peerLimiter),
		stop:     make(chan struct{}),
	}
	go rl.cleanup(time.Minute, 10*time.Minute)
	return rl
}

// Allow reports whether addr may make another request now.
func (rl *RateLimiter) Allow(addr string) bool {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	rl.mu.Lock()
	pl, ok := rl.limiters[host]
	if !ok {
		pl = &peerLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[host] = pl
	}
	pl.lastSeen = time.Now()
	rl.mu.Unlock()

	return pl.limiter.Allow()
}

func (rl *RateLimiter) cleanup(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for host, pl := range rl.limiters {
				if time.Since(pl.lastSeen) > idle {
					delete(rl.limiters, host)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// RateLimitInterceptor throttles the listed procedures per peer address.
// Other procedures pass through untouched.
func RateLimitInterceptor(rl *RateLimiter, procedures ...string) connect.UnaryInterceptorFunc {
	limited := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		limited[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if limited[req.Spec().Procedure] && !rl.Allow(req.Peer().Addr) {
				return nil, connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
			}
			return next(ctx, req)
		}
	}
}
