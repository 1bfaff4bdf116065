package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"feedesk/internal/config"
	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminSchool := config.GetEnv("ADMIN_SCHOOL_ID", models.AllSchools)

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}
	if err := validation.Password(adminPassword); err != nil {
		log.Fatalf("ADMIN_PASSWORD rejected: %v", err)
	}

	if err := repositories.InitDB(config.GetDurationEnv("FEE_SOURCE_CACHE_TTL", 10*time.Minute)); err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}
	defer repositories.Close()

	ctx := context.Background()
	users := repositories.NewUserRepository(repositories.DB, repositories.CacheService)

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("Admin user already exists")
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := &models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         config.GetEnv("ADMIN_NAME", "Administrator"),
		Phone:        os.Getenv("ADMIN_PHONE"),
		Role:         models.RoleAdmin,
		SchoolID:     adminSchool,
		Status:       "active",
		TokenVersion: 1,
	}

	if err := users.Create(ctx, adminUser); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("✅ Admin account created for school %s", adminSchool)
}
