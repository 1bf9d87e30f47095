package main

import (
	"context"
	"log"

	"clinical-synth-be/internal/bootstrap"
	"clinical-synth-be/internal/config"
	"clinical-synth-be/internal/server"
	"clinical-synth-be/internal/tracer"
	"clinical-synth-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Demo data for a fresh store
	if cfg.App.SeedDemoData {
		if err := container.PatientService.SeedDemoData(context.Background()); err != nil {
			log.Printf("[WARN] Demo data seeding failed: %v", err)
		}
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Initialize and Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
