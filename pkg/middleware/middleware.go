// Package middleware provides the HTTP middleware shared by the server:
// correlation IDs, access logging, panic recovery, and Prometheus metrics.
package middleware

import "net/http"

// statusWriter records the status code and body size a handler writes, so the
// logging and metrics middleware can report them after the fact.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
