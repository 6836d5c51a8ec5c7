package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maltedev/fba-price-sync/cmd/pricesync/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
