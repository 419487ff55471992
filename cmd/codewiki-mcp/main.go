// Command codewiki-mcp serves Google CodeWiki to MCP clients and the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudmeru/codewiki-mcp/internal/adapters/driving/cli"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	// Close the browser as soon as a signal arrives; Execute closes it again
	// on the way out.
	go func() {
		<-ctx.Done()
		cli.Close()
	}()

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}
