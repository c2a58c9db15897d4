package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// VaultMetrics aggregates the counters exported by the settlement engine.
type VaultMetrics struct {
	swapsSettled    *prometheus.CounterVec
	stepsQuoted     prometheus.Counter
	flashLoans      prometheus.Counter
	custodyMoves    *prometheus.CounterVec
	feesAccrued     *prometheus.CounterVec
	settlementFails *prometheus.CounterVec
}

var (
	vaultOnce     sync.Once
	vaultRegistry *VaultMetrics
)

// Vault returns the process-wide vault metrics, registering them on first
// use.
func Vault() *VaultMetrics {
	vaultOnce.Do(func() {
		vaultRegistry = &VaultMetrics{
			swapsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_batch_swaps_total",
				Help: "Count of settled batch swaps by trade direction.",
			}, []string{"direction"}),
			stepsQuoted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vault_trade_steps_total",
				Help: "Count of individual trade steps quoted across all batches.",
			}),
			flashLoans: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vault_flash_loans_total",
				Help: "Count of completed flash loans.",
			}),
			custodyMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_custody_moves_total",
				Help: "Count of internal custody operations by kind.",
			}, []string{"kind"}),
			feesAccrued: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_fees_accrued_total",
				Help: "Count of protocol fee accrual events by fee kind.",
			}, []string{"kind"}),
			settlementFails: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_settlement_failures_total",
				Help: "Count of aborted settlement calls by entry point.",
			}, []string{"entry"}),
		}
		prometheus.MustRegister(
			vaultRegistry.swapsSettled,
			vaultRegistry.stepsQuoted,
			vaultRegistry.flashLoans,
			vaultRegistry.custodyMoves,
			vaultRegistry.feesAccrued,
			vaultRegistry.settlementFails,
		)
	})
	return vaultRegistry
}

// SwapSettled records a completed batch swap for the supplied direction.
func (m *VaultMetrics) SwapSettled(direction string, steps int) {
	if m == nil {
		return
	}
	m.swapsSettled.WithLabelValues(direction).Inc()
	m.stepsQuoted.Add(float64(steps))
}

// FlashLoanCompleted records a completed flash loan.
func (m *VaultMetrics) FlashLoanCompleted() {
	if m == nil {
		return
	}
	m.flashLoans.Inc()
}

// CustodyMove records an internal custody operation.
func (m *VaultMetrics) CustodyMove(kind string) {
	if m == nil {
		return
	}
	m.custodyMoves.WithLabelValues(kind).Inc()
}

// FeeAccrued records a protocol fee accrual event.
func (m *VaultMetrics) FeeAccrued(kind string) {
	if m == nil {
		return
	}
	m.feesAccrued.WithLabelValues(kind).Inc()
}

// SettlementFailed records an aborted settlement call.
func (m *VaultMetrics) SettlementFailed(entry string) {
	if m == nil {
		return
	}
	m.settlementFails.WithLabelValues(entry).Inc()
}
