package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(deps{}).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "formbind-cli: %v\n", err)
		os.Exit(1)
	}
}
