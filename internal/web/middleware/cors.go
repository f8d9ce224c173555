package middleware

import (
	"net/http"
	"os"
	"strings"
)

// kioskOrigins is the set of browser origins allowed to call the API.
// Kiosks run on dedicated devices, so the set is small and comes from the
// KIOSK_ALLOWED_ORIGINS env var (comma-separated).
type kioskOrigins map[string]struct{}

func loadKioskOrigins() kioskOrigins {
	set := make(kioskOrigins)
	for _, o := range strings.Split(os.Getenv("KIOSK_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

// admits reports whether the origin may receive CORS headers. Localhost on
// any port is always admitted so a kiosk build can be developed against a
// local server.
func (k kioskOrigins) admits(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := k[origin]; ok {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost")
}

// CORS returns middleware that admits kiosk origins. The API exchanges no
// cookies, so credentials are never allowed.
func CORS() func(http.Handler) http.Handler {
	origins := loadKioskOrigins()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origins.admits(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders returns middleware for the JSON API. The server never
// serves markup, so the CSP can deny everything.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Security-Policy", "default-src 'none'")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	}
}
