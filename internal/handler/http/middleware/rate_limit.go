package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// minIdleTTL is the shortest time an unused client entry is kept.
const minIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	// An entry idle for longer than a full refill has a full bucket again, so
	// dropping it changes nothing for that client.
	idleTTL := minIdleTTL
	if r > 0 && r != rate.Inf {
		if refill := time.Duration(float64(b) / float64(r) * float64(time.Second)); refill > idleTTL {
			idleTTL = refill
		}
	}

	return &IPRateLimiter{
		ips:     make(map[string]*visitor),
		r:       r,
		b:       b,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.idleTTL {
		i.sweep(now)
	}

	v, exists := i.ips[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

// sweep drops entries idle for longer than idleTTL. Callers hold mu.
func (i *IPRateLimiter) sweep(now time.Time) {
	for key, v := range i.ips {
		if now.Sub(v.lastSeen) > i.idleTTL {
			delete(i.ips, key)
		}
	}
	i.lastSweep = now
}

// Len reports how many client entries are tracked.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// RateLimitByIP allows b requests at once per client address, refilled at r per second.
func RateLimitByIP(r rate.Limit, b int) func(http.Handler) http.Handler {
	return NewIPRateLimiter(r, b).Middleware
}

// Middleware rejects requests from a client address that exhausted its limiter.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !i.GetLimiter(clientIP(req)).Allow() {
			response.TooManyRequests(w, "Too many requests from this IP")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
