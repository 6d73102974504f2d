package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const paymentSubsystem = "payment"

var paymentSessionsCreated = &Metric{
	ID:          "sessionsCreated",
	Name:        "sessions_created_total",
	Description: "Payment sessions created, partitioned by method.",
	Type:        "counter_vec",
	Args:        []string{"method"},
}

var paymentSettlements = &Metric{
	ID:          "settlements",
	Name:        "settlements_total",
	Description: "Payment sessions settled, partitioned by method.",
	Type:        "counter_vec",
	Args:        []string{"method"},
}

var paymentVerifyFailures = &Metric{
	ID:          "verifyFailures",
	Name:        "verify_failures_total",
	Description: "Rejected verify calls, partitioned by reason.",
	Type:        "counter_vec",
	Args:        []string{"reason"},
}

var paymentSessionsExpired = &Metric{
	ID:          "sessionsExpired",
	Name:        "sessions_expired_total",
	Description: "Live payment sessions evicted after their TTL passed.",
	Type:        "counter",
}

var paymentLiveSessions = &Metric{
	ID:          "liveSessions",
	Name:        "live_sessions",
	Description: "Payment sessions currently awaiting settlement.",
	Type:        "gauge",
}

// PaymentRecorder exports payment session engine events to prometheus.
type PaymentRecorder struct {
	created  *prometheus.CounterVec
	settled  *prometheus.CounterVec
	failures *prometheus.CounterVec
	expired  prometheus.Counter
	live     prometheus.Gauge
}

func NewPaymentRecorder(reg prometheus.Registerer) (*PaymentRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := make(map[*Metric]prometheus.Collector, 5)
	for _, m := range []*Metric{paymentSessionsCreated, paymentSettlements, paymentVerifyFailures, paymentSessionsExpired, paymentLiveSessions} {
		c, err := register(reg, NewMetric(m, paymentSubsystem))
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", m.Name, err)
		}
		collectors[m] = c
	}
	return &PaymentRecorder{
		created:  collectors[paymentSessionsCreated].(*prometheus.CounterVec),
		settled:  collectors[paymentSettlements].(*prometheus.CounterVec),
		failures: collectors[paymentVerifyFailures].(*prometheus.CounterVec),
		expired:  collectors[paymentSessionsExpired].(prometheus.Counter),
		live:     collectors[paymentLiveSessions].(prometheus.Gauge),
	}, nil
}

func (r *PaymentRecorder) SessionCreated(method string) {
	r.created.WithLabelValues(method).Inc()
	r.live.Inc()
}

func (r *PaymentRecorder) SessionSettled(method string) {
	r.settled.WithLabelValues(method).Inc()
	r.live.Dec()
}

func (r *PaymentRecorder) VerifyFailed(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

func (r *PaymentRecorder) SessionsExpired(n int) {
	if n <= 0 {
		return
	}
	r.expired.Add(float64(n))
	r.live.Sub(float64(n))
}
