package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mmcdole/newsdesk/internal/cli"
)

// Version is set at build time via -ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cli.SetVersion(Version)
	cli.SetBuildInfo(Commit, BuildTime)
	code := cli.Execute(ctx)

	stop()
	os.Exit(code)
}
