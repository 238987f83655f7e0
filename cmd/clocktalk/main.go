// Command clocktalk configures periodic macOS time announcements.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kickingvegas/clocktalk/internal/cli"
	logx "github.com/kickingvegas/clocktalk/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Clocktalk{
		Stdout:     logx.Stdout(),
		Stderr:     logx.Stderr(),
		Env:        cli.ProcessEnv(),
		ConfigPath: os.Getenv("CLOCKTALK_CONFIG"),
	}
	code := app.Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
