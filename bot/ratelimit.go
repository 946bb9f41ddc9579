package bot

import (
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultCommandsPerMinute = 20

// RateLimiter throttles commands per user with a token bucket each.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

// NewRateLimiterFromEnv reads RATELIMIT_PER_MINUTE. Returns nil if rate
// limiting is switched off with a value of 0.
func NewRateLimiterFromEnv() *RateLimiter {
	perMinute := defaultCommandsPerMinute
	if value, ok := os.LookupEnv("RATELIMIT_PER_MINUTE"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			log.Warn().Str("value", value).Msg("Invalid RATELIMIT_PER_MINUTE, using default")
		} else {
			perMinute = parsed
		}
	}

	if perMinute == 0 {
		return nil
	}
	return NewRateLimiter(perMinute)
}

// Wait takes a token for the user. It returns zero if the command may run,
// otherwise how long the user has to wait. A rejected command does not
// consume a token.
func (r *RateLimiter) Wait(userID int64) time.Duration {
	return r.waitAt(userID, time.Now())
}

func (r *RateLimiter) waitAt(userID int64, now time.Time) time.Duration {
	r.mu.Lock()
	limiter, ok := r.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters[userID] = limiter
	}
	r.mu.Unlock()

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return time.Minute
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
	}
	return delay
}
