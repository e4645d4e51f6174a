package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricProvider_Prometheus(t *testing.T) {
	mp, err := NewMetricProvider(
		WithServiceName("cosvm-explorer"),
		WithProviderConfig(ProviderCfg{Provider: PrometheusProvider}),
	)
	require.NoError(t, err)
	defer mp.Shutdown(context.Background())

	counter, err := mp.Meter("test").Int64Counter("explorer_test_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}

func TestOptions(t *testing.T) {
	cfg := WithServiceName("svc")(Config{})
	cfg = WithProviderConfig(NewOtelCollectorConfig("http://collector:4317", nil, true))(cfg)

	assert.Equal(t, "svc", cfg.ServiceName)
	require.Len(t, cfg.Provider, 1)
	assert.Equal(t, OtelCollector, cfg.Provider[0].Provider)
	assert.True(t, cfg.Provider[0].Insecure)

	assert.Equal(t, "2223", WithPort("2223")(PromServerConfig{}).port)
}
