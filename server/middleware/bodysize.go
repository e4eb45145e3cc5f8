package middleware

import "net/http"

// BodySizeLimit restricts request bodies to limit bytes. Reads past the
// limit fail, which the cascade handler reports as a malformed body.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
