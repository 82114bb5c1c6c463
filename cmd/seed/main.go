package main

import (
	"flag"
	"log"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/standards"
	"github.com/joho/godotenv"
)

func main() {
	path := flag.String("file", "config/standards.yaml", "path to the standards seed file")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()
	standards.Init()

	file, err := standards.LoadSeedFile(*path)
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}

	if err := standards.Seed(file); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
