package main

import (
	"flag"
	"log"
	"os"

	"github.com/AquaIndex/HMPI-Backend/internal/sampleimport"
	"github.com/joho/godotenv"
)

func main() {
	csvPath := flag.String("csv", "", "path to the sampling campaign CSV")
	standard := flag.String("standard", "WHO-2024", "standard code to evaluate readings against")
	dryRun := flag.Bool("dry-run", false, "validate and compute without writing anything")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("-csv is required")
	}

	_ = godotenv.Load(".env.local")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	err := sampleimport.Run(sampleimport.Config{
		CSVPath:     *csvPath,
		DatabaseURL: dbURL,
		Standard:    *standard,
		DryRun:      *dryRun,
	})
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}
