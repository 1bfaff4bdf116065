// Package main is the entry point of the fee desk API.
// It loads configuration, connects the stores, wires the services and serves HTTP
// until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedesk/internal/config"
	"feedesk/internal/handlers"
	"feedesk/internal/metrics"
	"feedesk/internal/repositories"
	"feedesk/internal/routes"
	"feedesk/internal/services/auth"
	"feedesk/internal/services/collection"
	"feedesk/internal/services/fee"
	"feedesk/internal/services/feesource"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := repositories.InitDB(cfg.FeeSourceCacheTTL); err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Fee source backend
	feeSourceRepo := repositories.NewFeeSourceRepository(repositories.DB)
	if cfg.FeeSourceBackend == config.BackendFirestore {
		client, err := repositories.NewFirestoreClient(context.Background(), repositories.FirestoreConfig{
			ProjectID:       cfg.FirestoreProject,
			CredentialsFile: cfg.FirestoreCredFile,
			CredentialsJSON: config.GetEnv("FIRESTORE_CREDENTIALS_JSON", ""),
		})
		if err != nil {
			log.Fatalf("Failed to connect to Firestore: %v", err)
		}
		defer client.Close()
		feeSourceRepo = repositories.NewFirestoreFeeSourceRepository(client)
		log.Println("✅ Fee sources served from Firestore")
	}

	// Metrics
	registry := metrics.NewRegistry()

	// Services
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	studentRepo := repositories.NewStudentRepository(repositories.DB)
	examRepo := repositories.NewExamRepository(repositories.DB)

	authService := auth.NewService(userRepo)
	feeSources := feesource.NewService(
		feeSourceRepo,
		repositories.CacheService,
		feesource.Config{CacheTTL: cfg.FeeSourceCacheTTL},
		metrics.NewCollector(registry, "fee_sources"),
	)
	collections := collection.NewService(
		repositories.NewCollectionRepository(repositories.DB),
		studentRepo,
		examRepo,
		collection.Config{
			AllowDuplicates: cfg.DuplicatePolicy == config.DuplicatePolicyAllow,
			BatchWorkers:    cfg.BatchWorkers,
			BatchMaxItems:   cfg.BatchMaxItems,
		},
		metrics.NewCollector(registry, "collections"),
	)

	resolverOpts := fee.DefaultOptions()
	resolverOpts.ExhaustiveScan = cfg.ExhaustiveScan
	resolver := fee.NewResolver(resolverOpts)

	// Stale snapshots from a previous deployment may predate a format change
	if err := feeSources.InvalidateAll(context.Background()); err != nil {
		log.Printf("⚠️ Failed to clear cached fee sources: %v", err)
	}

	health := handlers.NewHealthHandler(version, map[string]handlers.Pinger{
		"database": handlers.PingFunc(sqlDB.PingContext),
		"redis":    handlers.PingFunc(repositories.CacheService.HealthCheck),
	})

	app := fiber.New(fiber.Config{
		AppName:      "feedesk",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/login", limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Auth:        authService,
		FeeSources:  feeSources,
		Collections: collections,
		Resolver:    resolver,
		Students:    studentRepo,
		Exams:       examRepo,
		Resolutions: metrics.NewCollector(registry, "fee"),
		Health:      health,
		Metrics:     metrics.Handler(registry),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()
	log.Printf("✅ Fee desk API listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("⚠️ Graceful shutdown failed: %v", err)
	}
}
