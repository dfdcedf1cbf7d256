package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics defines the domain-level counters
type BusinessMetrics struct {
	UserRegisteredTotal  prometheus.Counter
	TontineCreatedTotal  prometheus.Counter
	TontineClosedTotal   prometheus.Counter
	CycleCreatedTotal    prometheus.Counter
	CycleCompletedTotal  prometheus.Counter
	RoundClosedTotal     prometheus.Counter
	PaymentRecordedTotal *prometheus.CounterVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics initializes the business metric set
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		UserRegisteredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tontine_user_registered_total",
			Help: "The total number of registered users",
		}),
		TontineCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tontine_created_total",
			Help: "The total number of tontines created",
		}),
		TontineClosedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tontine_closed_total",
			Help: "The total number of tontines that reached capacity and closed",
		}),
		CycleCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tontine_cycle_created_total",
			Help: "The total number of cycles created",
		}),
		CycleCompletedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tontine_cycle_completed_total",
			Help: "The total number of cycles completed",
		}),
		RoundClosedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tontine_round_closed_total",
			Help: "The total number of rounds closed",
		}),
		PaymentRecordedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tontine_payment_recorded_total",
			Help: "The total number of payments recorded",
		}, []string{"status"}),
	}
}
