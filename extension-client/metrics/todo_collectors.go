package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type TodoMetrics struct {
	contractTxs       *prometheus.CounterVec
	contractQueries   *prometheus.CounterVec
	todos             *prometheus.GaugeVec
	walletConnections *prometheus.CounterVec
	connected         *prometheus.GaugeVec
}

// Declare a package-level variable for sync.Once to ensure metrics are registered only once
var todoMetricsRegisterOnce sync.Once

var todoMetricsInstance *TodoMetrics

// NewTodoMetrics initializes and registers the metrics with the default registry, only once.
func NewTodoMetrics() *TodoMetrics {
	todoMetricsRegisterOnce.Do(func() {
		todoMetricsInstance = newTodoMetrics()

		todoMetricsInstance.MustRegister(prometheus.DefaultRegisterer)
	})
	return todoMetricsInstance
}

// NewUnregisteredTodoMetrics returns collectors that are not registered anywhere, for tests and
// custom registries.
func NewUnregisteredTodoMetrics() *TodoMetrics {
	return newTodoMetrics()
}

func newTodoMetrics() *TodoMetrics {
	return &TodoMetrics{
		contractTxs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vectis_contract_txs_total",
			Help: "Contract transactions sent, by message kind and result",
		}, []string{"chain_id", "kind", "result"}),
		contractQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vectis_contract_queries_total",
			Help: "Todo list queries, by result",
		}, []string{"chain_id", "result"}),
		todos: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vectis_todos",
			Help: "Todos returned by the last successful query",
		}, []string{"chain_id"}),
		walletConnections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vectis_wallet_connections_total",
			Help: "Wallet connection attempts, by result",
		}, []string{"chain_id", "result"}),
		connected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vectis_wallet_connected",
			Help: "1 when a wallet is connected on the chain",
		}, []string{"chain_id"}),
	}
}

func (m *TodoMetrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.contractTxs,
		m.contractQueries,
		m.todos,
		m.walletConnections,
		m.connected,
	)
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func (m *TodoMetrics) RecordContractTx(chainID, kind string, err error) {
	m.contractTxs.WithLabelValues(chainID, kind, result(err)).Inc()
}

func (m *TodoMetrics) RecordQuery(chainID string, todos int, err error) {
	m.contractQueries.WithLabelValues(chainID, result(err)).Inc()
	if err == nil {
		m.todos.WithLabelValues(chainID).Set(float64(todos))
	}
}

func (m *TodoMetrics) RecordConnection(chainID string, err error) {
	m.walletConnections.WithLabelValues(chainID, result(err)).Inc()
	if err == nil {
		m.connected.WithLabelValues(chainID).Set(1)
	}
}

func (m *TodoMetrics) RecordDisconnected(chainID string) {
	m.connected.WithLabelValues(chainID).Set(0)
}
