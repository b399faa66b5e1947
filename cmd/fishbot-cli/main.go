package main

import (
	"farmbot-backend/cmd/fishbot-cli/commands"
	"farmbot-backend/lib/serviceutil"
	"farmbot-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "fishbot-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
