package export

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultSkipped = "skipped"
)

type exportMetrics struct {
	files *prometheus.CounterVec
	bytes *prometheus.CounterVec
}

var (
	exportMetricsOnce sync.Once
	exportMetricsInst *exportMetrics
)

func globalExportMetrics() *exportMetrics {
	exportMetricsOnce.Do(func() {
		exportMetricsInst = newExportMetrics()
	})
	return exportMetricsInst
}

func newExportMetrics() *exportMetrics {
	return &exportMetrics{
		files: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "novadmin",
			Subsystem: "export",
			Name:      "files_total",
			Help:      "Export attempts, labeled by format and result",
		}, []string{"format", "result"}),
		bytes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "novadmin",
			Subsystem: "export",
			Name:      "bytes_total",
			Help:      "Bytes handed to file sinks, labeled by format",
		}, []string{"format"}),
	}
}

func (m *exportMetrics) record(format Format, result string) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(string(format), result).Inc()
}

func (m *exportMetrics) recordBytes(format Format, n int) {
	if m == nil {
		return
	}
	m.bytes.WithLabelValues(string(format)).Add(float64(n))
}
