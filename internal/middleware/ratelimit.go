package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCleanupEvery — как часто удаляются лимитеры простаивающих IP.
const limiterCleanupEvery = time.Minute

// clientIP извлекает IP клиента. X-Forwarded-For / X-Real-IP учитываются,
// только если сервер стоит за доверенным прокси (trustProxy).
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			return strings.TrimSpace(strings.Split(xff, ",")[0])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type ipLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	lastCleanup time.Time
	now         func() time.Time
}

func newIPLimiter(perMinute int) *ipLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		burst:    perMinute,
		now:      time.Now,
	}
}

// allow списывает токен для key. Если токенов нет, возвращает время до следующего.
func (l *ipLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.pruneLocked(now)

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	if lim.AllowN(now, 1) {
		return true, 0
	}
	res := lim.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	res.CancelAt(now)
	return false, delay
}

// pruneLocked удаляет лимитеры с полным ведром: такой IP давно не приходил,
// и новый лимитер для него ведёт себя так же.
func (l *ipLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < limiterCleanupEvery {
		return
	}
	l.lastCleanup = now
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// WithRateLimit ограничивает число запросов с одного IP: perMinute в минуту, всплеск до perMinute.
// trustProxy включает определение IP по заголовкам прокси.
func WithRateLimit(perMinute int, trustProxy bool) func(http.Handler) http.Handler {
	l := newIPLimiter(perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			ok, delay := l.allow(ip)
			if !ok {
				retryAfter := max(int(delay.Seconds()), 1)
				sugar.Warnw("rate limit exceeded", "ip", ip, "uri", r.RequestURI)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
