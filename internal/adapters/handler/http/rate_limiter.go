package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// voterLimiter hands out one token bucket per authenticated voter so a
// misbehaving client cannot hammer the submission critical section. Idle
// buckets are dropped after an hour.
type voterLimiter struct {
	mu        sync.Mutex
	buckets   map[uuid.UUID]*bucket
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVoterLimiter(every time.Duration, burst int) *voterLimiter {
	return &voterLimiter{
		buckets:   make(map[uuid.UUID]*bucket),
		every:     rate.Every(every),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (l *voterLimiter) allow(voterID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Hour {
		for id, b := range l.buckets {
			if now.Sub(b.lastSeen) > time.Hour {
				delete(l.buckets, id)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[voterID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[voterID] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

// RateLimit rejects requests over the per-voter budget with 429.
func (l *voterLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "missing user context")
			return
		}
		if !l.allow(actor.ID) {
			respondMessage(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
