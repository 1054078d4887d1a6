// internal/middleware/security.go
//
// Security-header middleware for the ops listener.
//
// The listener is internal and JSON-only, so this is a slim set: MIME
// sniffing off, no framing, no referrer leakage.  Headers are added before
// next.ServeHTTP, since header changes made after a handler has written its
// response never reach the client; the middleware never overwrites an
// existing value, and handlers may still replace any of them.

package middleware

import "net/http"

// Security sets baseline security headers on every response.
func Security(next http.Handler) http.Handler {
	const (
		nosn  = "nosniff"
		xfo   = "DENY"
		refer = "no-referrer"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("X-Content-Type-Options") == "" {
			w.Header().Add("X-Content-Type-Options", nosn)
		}
		if w.Header().Get("X-Frame-Options") == "" {
			w.Header().Add("X-Frame-Options", xfo)
		}
		if w.Header().Get("Referrer-Policy") == "" {
			w.Header().Add("Referrer-Policy", refer)
		}

		next.ServeHTTP(w, r)
	})
}
