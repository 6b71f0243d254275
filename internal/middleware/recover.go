package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"clinica-ia/internal/utils"
)

// startedWriter remembers whether the response has been committed
type startedWriter struct {
	http.ResponseWriter
	started bool
}

func (sw *startedWriter) WriteHeader(code int) {
	sw.started = true
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *startedWriter) Write(b []byte) (int, error) {
	sw.started = true
	return sw.ResponseWriter.Write(b)
}

func (sw *startedWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// Recover turns a panicking handler into a 500 JSON response.
// Once the handler has started the response only the log entry is written.
// It must sit inside Logging so the access log still sees the request.
func Recover(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &startedWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithFields(logrus.Fields{
					"panic":            rec,
					"path":             r.URL.Path,
					"request_id":       GetRequestID(r.Context()),
					"response_started": sw.started,
					"stack":            string(debug.Stack()),
				}).Error("handler panicked")
				if sw.started {
					return
				}
				utils.WriteErrorResponse(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), "")
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

// Chain applies middlewares so that the first one is the outermost
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
