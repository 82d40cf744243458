package main

import (
	"context"
	"tlvarchive/cmd/tlvarchive/commands"
	"tlvarchive/lib/serviceutil"
	"tlvarchive/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	err := telemetry.SetupFromEnv(ctx, "tlvarchive")
	if err == nil {
		defer telemetry.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	commands.ExecuteContext(ctx)
}
