package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/logscope/backend/internal/db"
	"github.com/logscope/backend/internal/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	db.Connect()
	db.AutoMigrate()

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@logscope.local"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
	}

	var existing models.User
	if err := db.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Printf("Admin user %s already exists, skipping seed", adminEmail)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Email:     adminEmail,
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
	}
	if err := db.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	// Sample project pointing at a common agent log group
	project := models.Project{
		Name:      "sample",
		LogGroup:  "/aws/application/sample",
		Region:    "us-east-1",
		CreatedBy: admin.ID,
	}
	if err := db.DB.Create(&project).Error; err != nil {
		log.Fatalf("Failed to create sample project: %v", err)
	}

	log.Printf("Seeded admin user %s and sample project", adminEmail)
}
