package mockapi

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login results.
const (
	loginSuccess  = "success"
	loginInvalid  = "invalid_credentials"
	loginDisabled = "disabled"
	loginRejected = "bad_request"
)

type authMetrics struct {
	logins    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	swept     *prometheus.CounterVec
}

var (
	authMetricsOnce sync.Once
	authMetricsInst *authMetrics
)

func globalAuthMetrics() *authMetrics {
	authMetricsOnce.Do(func() {
		authMetricsInst = &authMetrics{
			logins: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "novadmin",
				Subsystem: "auth",
				Name:      "logins_total",
				Help:      "Login attempts, labeled by result",
			}, []string{"result"}),
			refreshes: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "novadmin",
				Subsystem: "auth",
				Name:      "refreshes_total",
				Help:      "Token refresh attempts, labeled by result",
			}, []string{"result"}),
			swept: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "novadmin",
				Subsystem: "auth",
				Name:      "swept_total",
				Help:      "Entries removed by the token sweeper, labeled by kind",
			}, []string{"kind"}),
		}
	})
	return authMetricsInst
}

func (m *authMetrics) login(result string) {
	m.logins.WithLabelValues(result).Inc()
}

func (m *authMetrics) refresh(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *authMetrics) sweep(refresh, revoked int) {
	m.swept.WithLabelValues("refresh_token").Add(float64(refresh))
	m.swept.WithLabelValues("revoked_jti").Add(float64(revoked))
}
