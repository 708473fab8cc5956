package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bjornrobertsson/coderttl/command"
	"github.com/bjornrobertsson/coderttl/internal/log"

	"github.com/joho/godotenv"
)

func main() {
	// Logger will be configured with proper level from CLI flags
	log.Configure("info", os.Stderr)

	// Variables from .env sit below the real environment
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := command.RootCmd.Execute(ctx)
	if err != nil {
		stop()
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
