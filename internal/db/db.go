package db

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"redditradar/internal/models"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=redditradar port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	slog.Info("database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.Subreddit{},
		&models.Post{},
		&models.Category{},
		&models.PostCategory{},
	)
	if err != nil {
		slog.Error("failed to migrate database", "err", err)
		os.Exit(1)
	}
	slog.Info("database migration completed")

	seedCategories()
}

// seedCategories inserts the fixed classification taxonomy. Descriptions
// mirror the criteria embedded in the classifier prompt.
func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	categories := []models.Category{
		{Name: "Solution Requests", Description: "Seeking solutions to problems."},
		{Name: "Pain and Anger", Description: "Expressing frustration or anger."},
		{Name: "Advice Requests", Description: "Seeking advice or opinions."},
		{Name: "Money Talk", Description: "Discussing money or finance topics."},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			slog.Error("failed to seed category", "name", category.Name, "err", err)
		}
	}
	slog.Info("seeded classification categories", "count", len(categories))
}
