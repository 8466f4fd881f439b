package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

const (
	msgServerError = "Server Error"
	msgDuplicate   = "Duplicate field value entered"
	msgNotFound    = "Resource not found"
)

// HandlerFunc is an http.HandlerFunc that reports failure by returning an
// error instead of writing it. Server.wrap turns it into an http.HandlerFunc.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap adapts fn so that a returned error or a panic is routed to fault.
// If fn already started a response, the failure is logged and nothing more
// is written.
func (s *Server) wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		err := call(fn, ww, r)
		if err == nil {
			return
		}
		if ww.Status() != 0 {
			s.log.ErrorContext(r.Context(), "handler failed after response started",
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.Int("status", ww.Status()),
				slog.String("error", err.Error()),
			)
			return
		}
		s.fault(ww, r, err)
	}
}

// call runs fn and converts a panic into an error.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func call(fn HandlerFunc, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		err = fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
	}()
	return fn(w, r)
}

// fault is the only place error bodies are written. Internal details of
// unclassified errors are logged, never sent.
func (s *Server) fault(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(r.Context(), level, "request failed",
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

func classify(err error) (int, string) {
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode, appErr.Message
	}
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusBadRequest, msgDuplicate
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	default:
		return http.StatusInternalServerError, msgServerError
	}
}
