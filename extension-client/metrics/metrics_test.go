package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestConfigAddress(t *testing.T) {
	cfg := DefaultConfig()
	addr, err := cfg.Address()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:2112", addr)

	cfg.Host = "localhost"
	_, err = cfg.Address()
	require.Error(t, err)

	cfg.Host = "0.0.0.0"
	cfg.Port = 70000
	_, err = cfg.Address()
	require.Error(t, err)
}

func TestConfigWithEnv(t *testing.T) {
	t.Setenv("VECTIS_METRICS_ENABLED", "true")
	t.Setenv("VECTIS_METRICS_PORT", "9100")

	cfg := DefaultConfig()
	cfg.WithEnv()
	require.True(t, cfg.Enabled)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, "127.0.0.1", cfg.Host)
}

func TestTodoMetrics(t *testing.T) {
	m := NewUnregisteredTodoMetrics()
	m.MustRegister(prometheus.NewRegistry())

	m.RecordContractTx("pulsar-dev-1", "add_todo", nil)
	m.RecordContractTx("pulsar-dev-1", "add_todo", errors.New("out of gas"))
	m.RecordContractTx("pulsar-dev-1", "add_todo", nil)
	require.Equal(t, 2.0, testutil.ToFloat64(m.contractTxs.WithLabelValues("pulsar-dev-1", "add_todo", ResultSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.contractTxs.WithLabelValues("pulsar-dev-1", "add_todo", ResultFailure)))

	m.RecordQuery("pulsar-dev-1", 3, nil)
	m.RecordQuery("pulsar-dev-1", 0, errors.New("timeout"))
	require.Equal(t, 3.0, testutil.ToFloat64(m.todos.WithLabelValues("pulsar-dev-1")))

	m.RecordConnection("pulsar-dev-1", nil)
	require.Equal(t, 1.0, testutil.ToFloat64(m.connected.WithLabelValues("pulsar-dev-1")))
	m.RecordDisconnected("pulsar-dev-1")
	require.Equal(t, 0.0, testutil.ToFloat64(m.connected.WithLabelValues("pulsar-dev-1")))
}
