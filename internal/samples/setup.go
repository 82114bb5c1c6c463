package samples

import (
	"log"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "samples"); err != nil {
		log.Fatal("Failed to create samples schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Sample{}, &SampleReading{}, &Result{}, &ResultSubIndex{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
