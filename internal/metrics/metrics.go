package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for ledger operations.
type Metrics struct {
	Operations    *prometheus.CounterVec
	LedgerHeight  prometheus.Gauge
	LotteryCount  prometheus.Gauge
	DrawnWinners  prometheus.Histogram
	FeesCollected prometheus.Counter
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_operations_total",
			Help: "Ledger operations executed, by operation and outcome",
		}, []string{"op", "outcome"}),
		LedgerHeight: f.NewGauge(prometheus.GaugeOpts{
			Name: "lottery_ledger_height",
			Help: "Height of the last executed transaction",
		}),
		LotteryCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "lottery_registry_next_id",
			Help: "Next lottery id, i.e. the number of lotteries ever created",
		}),
		DrawnWinners: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lottery_draw_winners",
			Help:    "Number of winners selected per draw",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		FeesCollected: f.NewCounter(prometheus.CounterOpts{
			Name: "lottery_activation_fees_total",
			Help: "Sum of activation fees transferred to the authority account",
		}),
	}
}

// ObserveOperation counts one executed operation.
func (m *Metrics) ObserveOperation(op, outcome string, height uint64) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.LedgerHeight.Set(float64(height))
}

// ObserveCreation records a successful lottery creation.
func (m *Metrics) ObserveCreation(nextID, fee uint64) {
	if m == nil {
		return
	}
	m.LotteryCount.Set(float64(nextID))
	m.FeesCollected.Add(float64(fee))
}

// ObserveDraw records the size of a winner set.
func (m *Metrics) ObserveDraw(winners int) {
	if m == nil {
		return
	}
	m.DrawnWinners.Observe(float64(winners))
}
