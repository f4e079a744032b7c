package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborworks/cms/internal/platform/seeder"
)

type App struct {
	server  *http.Server
	config  Config
	seeders *seeder.Orchestrator
}

func NewApp(server *http.Server, config Config, seeders *seeder.Orchestrator) *App {
	return &App{
		server:  server,
		config:  config,
		seeders: seeders,
	}
}

// Run seeds baseline data, starts the HTTP server and handles graceful
// shutdown
func (a *App) Run() error {
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()
	if err := a.seeders.RunAll(seedCtx); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
