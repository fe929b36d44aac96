// Command eventctl is the terminal client for the Evently ticketing backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	err := newRootCommand(c).ExecuteContext(ctx)
	c.close()
	if err != nil {
		os.Exit(1)
	}
}
