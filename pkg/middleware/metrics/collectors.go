package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "admin_http_response_seconds",
			Help:    "admin http response time.",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 2},
		},
		[]string{"method"},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "admin_http_requests_from_role_total", Help: "admin http requests by caller role"},
		[]string{"role"},
	)

	totalHttpRequestsToRoute = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "admin_http_requests_to_route_total", Help: "admin http requests by code, route and method"},
		[]string{"code", "route", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToRoute,
	)
}
