package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/auth"
)

// Collect records request counts and latency. ca may be nil.
func Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			defer func() {
				if isSkipPath(r) {
					return
				}
				role := ""
				if ca != nil {
					role = ca.GetUser(r.Context()).Role.Name
				}

				totalHttpRequestsFromRole.WithLabelValues(role).Inc()
				totalHttpRequestsToRoute.WithLabelValues(strconv.Itoa(ww.Status()), normalizePath(r), r.Method).Inc()
				responseTime.WithLabelValues(r.Method).Observe(time.Since(startTime).Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
