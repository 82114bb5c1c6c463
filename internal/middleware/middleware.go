package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/utils"
	"golang.org/x/time/rate"
)

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
				return
			}

			session, err := fetcher.FindSessionByID(cookie.Value)
			if err != nil {
				http.Error(w, "Couldn't find session", http.StatusUnauthorized)
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:5173":          {},
	"http://localhost:5174":          {},
	"https://aquaindex.github.io":    {},
	"https://dashboard.aquaindex.io": {},
	"https://hmpi-dev.aquaindex.io":  {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		w.Header().Set("Access-Control-Expose-Headers", "Server-Timing, Retry-After, Cache-Control")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type User struct {
	UserID string `gorm:"primaryKey"`
	Role   string
}

func (User) TableName() string { return "app_auth.users" }

func AdminMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
				return
			}

			var user User
			if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
				http.Error(w, "Unauthorized: user not found", http.StatusUnauthorized)
				return
			}

			if user.Role != "admin" {
				http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ipLimiters hands out one token bucket per client IP. Entries are
// never evicted; sample submitters are a small, known population.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// RateLimitMiddleware caps request rate per client IP. Used on the
// sample submission routes so a misbehaving uploader can't flood the
// compute path.
func RateLimitMiddleware(perSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(perSecond),
		burst:    burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiters.get(ip).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
