package main

import (
	"context"
	"log/slog"

	"farmbot-backend/lib/restyutil"
	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/lib/serviceutil"
	"farmbot-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	telemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	if !verbose {
		return
	}

	farmrpg.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty/farmrpg"),
	)
}
