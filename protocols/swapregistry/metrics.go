package swapregistry

import (
	"errors"

	"github.com/defistate/swap-engine-go/protocols/swappool"
	"github.com/defistate/swap-engine-go/protocols/tokenledger"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the engine's operation outcomes.
type Metrics struct {
	swapsTotal      prometheus.Counter
	rejectionsTotal *prometheus.CounterVec
	opDuration      *prometheus.HistogramVec
}

// NewMetrics creates and registers the engine metrics with the given registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		swapsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swap_engine",
			Name:      "swaps_executed_total",
			Help:      "Number of swaps that completed and mutated ledger state.",
		}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swap_engine",
			Name:      "operations_rejected_total",
			Help:      "Number of operations refused by a guard, labeled by reason.",
		}, []string{"reason"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swap_engine",
			Name:      "operation_duration_seconds",
			Help:      "Duration of engine operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	registry.MustRegister(m.swapsTotal, m.rejectionsTotal, m.opDuration)
	return m
}

// reasonFor maps a guard error to its rejection-counter label.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrWriteAccessDenied):
		return "write_access_denied"
	case errors.Is(err, ErrTokenNotFound):
		return "token_not_found"
	case errors.Is(err, ErrPoolNotFound):
		return "pool_not_found"
	case errors.Is(err, tokenledger.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, swappool.ErrZeroAmountOut):
		return "zero_amount_out"
	case errors.Is(err, tokenledger.ErrBalanceOverflow),
		errors.Is(err, swappool.ErrReserveOverflow),
		errors.Is(err, swappool.ErrAmountOverflow):
		return "overflow"
	default:
		return "other"
	}
}
