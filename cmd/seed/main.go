package main

import (
	"context"
	"errors"
	"log"
	"os"

	"marketing-insights-be/internal/entity"
	"marketing-insights-be/internal/repository/contract"
	"marketing-insights-be/internal/repository/implementation"
	"marketing-insights-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var defaultCampaigns = []string{
	"Spring Collection",
	"Back to School",
	"Holiday Season",
}

// Seeds the campaign registry. Names can be passed as arguments.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	names := defaultCampaigns
	if len(os.Args) > 1 {
		names = os.Args[1:]
	}

	repo := implementation.NewCampaignRepository(db)
	ctx := context.Background()

	log.Println("Seeding campaigns...")
	for _, name := range names {
		err := repo.Create(ctx, &entity.Campaign{Id: uuid.New(), Name: name})
		switch {
		case errors.Is(err, contract.ErrCampaignExists):
			log.Printf("Campaign '%s' already exists, skipping...", name)
		case err != nil:
			log.Printf("Error creating campaign '%s': %v", name, err)
		default:
			log.Printf("Created campaign: %s", name)
		}
	}

	log.Println("Campaign seeding completed!")
}
