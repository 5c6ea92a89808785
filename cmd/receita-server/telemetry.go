package main

import (
	"context"
	"log/slog"
	"transparencia-backend/lib/restyutil"
	"transparencia-backend/lib/serviceutil"
	"transparencia-backend/lib/telemetry"
)

// InitTelemetry sets up logging, tracing and metrics. when dump is true
// every exchange with the portal is also written under the dev state
// directory, the returned output is nil otherwise.
func InitTelemetry(ctx context.Context, serviceName, logLevel string, dump bool) (*slog.Logger, restyutil.InstrumentOutput) {
	level, err := telemetry.ParseLevel(logLevel)
	if err != nil {
		slog.Warn("invalid log level, using INFO", "level", logLevel, "err", err)
	}
	logger := telemetry.InitSlog(level)

	tel, err := telemetry.SetupFromEnv(ctx, serviceName)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shut down telemetry", "err", err)
		}
	}()
	if tel.Enabled() {
		telemetry.InstrumentPerfStats(ctx)
	}

	if !dump {
		return logger, nil
	}
	output, err := restyutil.NewFilesystemOutput("<dev_state>/resty/receita")
	if err != nil {
		serviceutil.Fatal("create resty dump directory", err)
	}
	logger.DebugContext(ctx, "dumping portal exchanges")
	return logger, output
}
