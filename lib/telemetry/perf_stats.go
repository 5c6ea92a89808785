package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const perfStatsInterval = 30 * time.Second

type perfSample struct {
	cpuPercent  float64
	cpuOk       bool
	allocatedMb int64
	liveObjects int64
	goroutines  int64
}

func samplePerfStats(ctx context.Context) perfSample {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sample := perfSample{
		allocatedMb: int64(memStats.Alloc / 1_000_000),
		liveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		goroutines:  int64(runtime.NumGoroutine()),
	}

	usage, err := cpu.PercentWithContext(ctx, time.Second*5, false)
	if err != nil {
		slog.WarnContext(ctx, "failed to read cpu usage", "err", err)
		return sample
	}
	if len(usage) > 0 {
		sample.cpuPercent = usage[0]
		sample.cpuOk = true
	}
	return sample
}

type perfGauges struct {
	cpu         metric.Float64Gauge
	allocatedMb metric.Int64Gauge
	liveObjects metric.Int64Gauge
	goroutines  metric.Int64Gauge
}

func newPerfGauges(meter metric.Meter) (perfGauges, error) {
	var g perfGauges
	var err error
	if g.cpu, err = meter.Float64Gauge("cpu_usage", metric.WithUnit("%")); err != nil {
		return g, err
	}
	if g.allocatedMb, err = meter.Int64Gauge("allocated_mb", metric.WithUnit("MBy")); err != nil {
		return g, err
	}
	if g.liveObjects, err = meter.Int64Gauge("live_objects"); err != nil {
		return g, err
	}
	g.goroutines, err = meter.Int64Gauge("goroutine_count")
	return g, err
}

func (g perfGauges) record(ctx context.Context, s perfSample) {
	if s.cpuOk {
		g.cpu.Record(ctx, s.cpuPercent)
	}
	g.allocatedMb.Record(ctx, s.allocatedMb)
	g.liveObjects.Record(ctx, s.liveObjects)
	g.goroutines.Record(ctx, s.goroutines)
}

// InstrumentPerfStats records process gauges every 30 seconds until ctx
// is cancelled.
func InstrumentPerfStats(ctx context.Context) {
	gauges, err := newPerfGauges(otel.Meter("go.perf_stats"))
	if err != nil {
		slog.WarnContext(ctx, "perf stats disabled", "err", err)
		return
	}

	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gauges.record(ctx, samplePerfStats(ctx))
			case <-ctx.Done():
				return
			}
		}
	}()
}
