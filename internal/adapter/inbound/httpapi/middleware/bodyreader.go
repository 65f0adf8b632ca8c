package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// rawBodyKey stores the buffered request body in the request context.
type rawBodyKey struct{}

// BodyReader reads and buffers the request body so it can be consumed more
// than once, first for signature verification and again for form parsing.
func BodyReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MB limit
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		r.Body.Close()

		r.Body = io.NopCloser(bytes.NewReader(body))

		ctx := context.WithValue(r.Context(), rawBodyKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RawBody returns the body buffered by BodyReader, if any.
func RawBody(r *http.Request) ([]byte, bool) {
	body, ok := r.Context().Value(rawBodyKey{}).([]byte)
	return body, ok
}
