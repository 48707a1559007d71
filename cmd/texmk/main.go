// Package main is the entry point for the texmk build tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"go.trai.ch/texmk/cmd/texmk/commands"
	"go.trai.ch/texmk/internal/app"
	_ "go.trai.ch/texmk/internal/wiring"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		return 1
	}
	defer components.Telemetry.Close() //nolint:errcheck // best effort flush

	cli := commands.New(components.App)
	cli.SetArgs(args)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
