package middleware

import (
	"net/http"
)

// MaxRequestSize caps request bodies. Multipart uploads get uploadLimit,
// everything else limit.
func MaxRequestSize(limit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			max := limit
			if extractContentType(r.Header.Get("Content-Type")) == ContentTypeMultipart {
				max = uploadLimit
			}

			if r.ContentLength > max {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"Request body too large","code":"INVALID_INPUT"}`))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
