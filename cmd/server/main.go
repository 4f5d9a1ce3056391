// Command server runs the storylab HTTP API.
//
// Configuration is read from environment variables, optionally loaded
// from a .env file in the working directory.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/storylabhq/storylab-backend/internal/app"
)

func main() {
	// A missing .env is fine in production where the environment is
	// provided by the orchestrator.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
