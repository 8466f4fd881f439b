package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewTracingHandler returns a middleware that creates a server span for every
// request using the globally registered tracer provider. With no provider
// configured the spans are no-ops.
func NewTracingHandler(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if route := routePattern(r); route != "" {
					return r.Method + " " + route
				}
				return r.Method
			}),
		)
	}
}
