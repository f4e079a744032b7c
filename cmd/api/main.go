package main

import (
	"context"
	"log"

	"github.com/harborworks/cms/internal/server"
)

func main() {
	ctx := context.Background()

	app, cleanup, err := server.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		log.Fatalf("Failed to run app: %v", err)
	}
}
