package provider

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// HandlerFunc handles an HTTP request and reports failure to its
// caller instead of writing an error response itself. Failures bubble
// up the middleware chain until the error formatter (or the top-level
// adapter) renders them.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Middleware wraps a HandlerFunc with additional behaviour.
type Middleware func(HandlerFunc) HandlerFunc

// Chain composes a handler with middleware, applying them in reverse
// order so the first listed runs outermost.
func Chain(h HandlerFunc, mw ...Middleware) HandlerFunc {
	chained := h
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// HTTPHandler adapts a HandlerFunc for a standard router. An error
// still unhandled at the top of the chain is logged and answered with
// a plain 500, unless a response has already been written.
func HTTPHandler(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w}
		if err := h(rec, r); err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled oauth endpoint error")
			if !rec.written {
				http.Error(rec, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	written bool
}

func (w *responseRecorder) WriteHeader(code int) {
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
