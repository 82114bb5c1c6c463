package standards

import (
	"log"

	"github.com/AquaIndex/HMPI-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "standards"); err != nil {
		log.Fatal("Failed to create standards schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Standard{}, &MetalLimit{}, &RiskBand{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
