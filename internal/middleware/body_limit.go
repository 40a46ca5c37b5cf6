package middleware

import "net/http"

// BodyLimitMiddleware caps how many request body bytes any later layer can
// read. Reads past limit fail with *http.MaxBytesError. A limit of 0 or less
// leaves the body untouched.
func BodyLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
