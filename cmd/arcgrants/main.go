package main

import (
	"context"

	"arcgrants/cmd/arcgrants/commands"
	"arcgrants/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(false)
	telemetry.SetupFromEnv(ctx, "arcgrants")
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
