package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avrentops/rentalctl/internal/app"
	"github.com/avrentops/rentalctl/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rentald:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = config.LoadEnvFile(".env")

	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}

	application, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}
