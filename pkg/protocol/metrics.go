// pkg/protocol/metrics.go
package protocol

import "github.com/prometheus/client_golang/prometheus"

var (
	tableOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "protocol_table_operations_total", Help: "protocol table mutations by op and result code"},
		[]string{"op", "code"},
	)

	tableEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "protocol_table_entries", Help: "installed protocol handlers and interceptors"},
		[]string{"table"},
	)
)

func init() {
	prometheus.MustRegister(tableOperations, tableEntries)
}

func observeOp(op OpKind, code Code) {
	tableOperations.WithLabelValues(op.String(), code.String()).Inc()
}

func setEntries(handlers, interceptors int) {
	tableEntries.WithLabelValues("handler").Set(float64(handlers))
	tableEntries.WithLabelValues("interceptor").Set(float64(interceptors))
}
