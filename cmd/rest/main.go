package main

import (
	"context"
	"log"

	"whisperlink-be/internal/bootstrap"
	"whisperlink-be/internal/config"
	"whisperlink-be/internal/server"
	"whisperlink-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Archive.Close()

	// 3. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Sweeper Service...")
		if err := container.SweeperService.Run(context.Background()); err != nil {
			log.Printf("Background Sweeper Error: %v", err)
		}
	}()

	if err := container.ArchiverService.Consume(context.Background()); err != nil {
		log.Printf("Background Archiver Error: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
