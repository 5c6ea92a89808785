package main

import (
	"flag"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/serviceutil"
	"transparencia-backend/services/receita"
)

func main() {
	configPath := flag.String("config", "config.json5", "Path to the config file.")
	dump := flag.Bool("dump", false, "Write every exchange with the portal to the dev state directory.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	cfg, err := receita.Load(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	logger, output := InitTelemetry(ctx, cfg.ServiceName, cfg.LogLevel, *dump)
	logger = logger.With("service", cfg.ServiceName)

	client, err := transparencia.NewClient(cfg.ClientOptions(logger, output))
	if err != nil {
		serviceutil.Fatal("init portal client", err)
	}
	service := receita.NewService(client, logger)

	logger.Info(
		"starting service",
		"portal", cfg.Portal.BaseUrl,
		"timeout_seconds", cfg.Portal.TimeoutSeconds,
	)
	serviceutil.StartHttpServer(ctx, cfg.Port, receita.NewHandler(service, logger))
}
