package server

import (
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-boxdlist/internal/config"
	"golang.org/x/time/rate"
)

// rateLimitGlobal limits requests from all clients together with a token bucket
// refilled at rps tokens per second, holding at most burst tokens.
func rateLimitGlobal(rps float64, burst int, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			slog.Warn(config.MsgRateLimited,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyRemote, r.RemoteAddr,
			)
			w.Header().Set(config.HeaderRetryAfter, config.RateLimitRetry)
			http.Error(w, config.HTTPMsgRateLimited, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// securityHeaders stops browsers from sniffing downloads into something executable.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		next.ServeHTTP(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}
