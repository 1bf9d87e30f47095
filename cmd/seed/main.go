package main

import (
	"context"
	"log"
	"os"

	"clinical-synth-be/internal/pkg/logger"
	"clinical-synth-be/internal/repository/docstore"
	"clinical-synth-be/internal/repository/implementation"
	"clinical-synth-be/internal/service"
	"clinical-synth-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo patients...")

	sysLogger := logger.NewZapLogger("logs/seed.log", false)
	patientRepo := implementation.NewPatientDocumentRepository(db)
	docStore := docstore.NewDocumentStore(patientRepo, nil, sysLogger)
	patientService := service.NewPatientService(docStore, nil, sysLogger)

	if err := patientService.SeedDemoData(context.Background()); err != nil {
		color.Red("Seeding failed: %v", err)
		os.Exit(1)
	}

	patients, err := patientService.List(context.Background())
	if err != nil {
		color.Red("Failed to list patients: %v", err)
		os.Exit(1)
	}

	for _, p := range patients {
		color.Green("  %s  %s (added %s, %d notes)", p.Id, p.Name, p.DateAdded, p.NoteCount)
	}

	color.Cyan("Done. %d patients in store.", len(patients))
}
