package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOtlpProtocol(t *testing.T) {
	protocol, endpoint := OtlpConnConfig{}.protocol()
	require.Equal(t, protocolNone, protocol)
	require.Equal(t, "", endpoint)
	require.True(t, OtlpConnConfig{}.empty())

	protocol, endpoint = OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/traces"}.protocol()
	require.Equal(t, protocolHttp, protocol)
	require.Equal(t, "http://localhost:4318/v1/traces", endpoint)

	protocol, endpoint = OtlpConnConfig{
		GrpcEndpoint: "http://localhost:4317",
		HttpEndpoint: "http://localhost:4318/v1/traces",
	}.protocol()
	require.Equal(t, protocolGrpc, protocol)
	require.Equal(t, "http://localhost:4317", endpoint)
}

func TestMetricInterval(t *testing.T) {
	require.Equal(t, defaultMetricInterval, OtlpConfig{}.metricInterval())
	require.Equal(t, 12*time.Second, OtlpConfig{MetricIntervalSeconds: 12}.metricInterval())
}

func TestPerfGauges(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	gauges, err := newPerfGauges(provider.Meter("test"))
	require.NoError(t, err)
	gauges.record(context.Background(), perfSample{allocatedMb: 12, liveObjects: 40, goroutines: 3})

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))
	require.Len(t, data.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range data.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	require.Equal(t, map[string]bool{
		"allocated_mb":    true,
		"live_objects":    true,
		"goroutine_count": true,
	}, names)
}
