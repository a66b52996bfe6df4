package authgate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// decisionsTotal счетчик решений гейта по исходам. Без пользовательских меток:
// кардинальность фиксирована набором причин.
var decisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authgate_decisions_total",
		Help: "Authorization gate decisions by outcome.",
	},
	[]string{"outcome"},
)

func observeDecision(d Decision) {
	outcome := "allow"
	if !d.Allowed {
		outcome = string(d.Reason)
	}
	decisionsTotal.WithLabelValues(outcome).Inc()
}
