// Package routes defines the API routing configuration.
// It builds the handlers and mounts them with their authentication and permission
// middleware.
package routes

import (
	"feedesk/internal/handlers"
	"feedesk/internal/middleware"
	"feedesk/internal/models"
	"feedesk/internal/repositories"
	"feedesk/internal/services/auth"
	"feedesk/internal/services/collection"
	"feedesk/internal/services/fee"
	"feedesk/internal/services/feesource"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the services and repositories the routes are built from.
type Dependencies struct {
	Auth        auth.Service
	FeeSources  feesource.Service
	Collections collection.Service
	Resolver    *fee.Resolver
	Students    repositories.StudentRepository
	Exams       repositories.ExamRepository
	Resolutions handlers.ResolutionRecorder
	Health      *handlers.HealthHandler
	Metrics     fiber.Handler
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth)
	feeHandler := handlers.NewFeeHandler(deps.FeeSources, deps.Resolver, deps.Students, deps.Exams, deps.Resolutions)
	feeSourceHandler := handlers.NewFeeSourceHandler(deps.FeeSources)
	collectionHandler := handlers.NewCollectionHandler(deps.Collections)
	studentHandler := handlers.NewStudentHandler(deps.Students)
	examHandler := handlers.NewExamHandler(deps.Exams)
	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)

	if deps.Health != nil {
		app.Get("/health", deps.Health.HealthCheck)
	}
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics)
	}

	// Public routes
	api := app.Group("/api")
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Authenticated routes
	api.Post("/logout", authMiddleware.Handler, authHandler.LogoutUser)
	api.Post("/change-password", authMiddleware.Handler, authHandler.ChangePassword)

	school := api.Group("/schools/:schoolId", authMiddleware.Handler, middleware.SchoolScope("schoolId"))

	// Fee resolution
	fees := school.Group("/fees", middleware.HasPermission(models.PermissionFeesRead))
	fees.Get("/resolve", feeHandler.Resolve)
	fees.Get("/explain", feeHandler.Explain)

	// Fee sources
	sources := school.Group("/fee-sources")
	sources.Get("/:kind", middleware.HasPermission(models.PermissionFeesRead), feeSourceHandler.Get)
	sources.Put("/:kind", middleware.HasPermission(models.PermissionFeesWrite), feeSourceHandler.Put)

	// Collections
	collections := school.Group("/collections")
	collections.Post("/", middleware.HasPermission(models.PermissionCollectionsWrite), collectionHandler.Create)
	collections.Post("/batch", middleware.HasPermission(models.PermissionCollectionsWrite), collectionHandler.Batch)
	collections.Get("/", middleware.HasPermission(models.PermissionCollectionsRead), collectionHandler.List)
	collections.Get("/:voucherId/receipt.png", middleware.HasPermission(models.PermissionCollectionsRead), collectionHandler.Receipt)
	collections.Get("/:voucherId", middleware.HasPermission(models.PermissionCollectionsRead), collectionHandler.Get)

	// Students
	students := school.Group("/students")
	students.Get("/", middleware.HasPermission(models.PermissionStudentsRead), studentHandler.List)
	students.Post("/", middleware.HasPermission(models.PermissionStudentsWrite), studentHandler.Create)

	// Exams
	exams := school.Group("/exams")
	exams.Get("/", middleware.HasPermission(models.PermissionExamsRead), examHandler.List)
	exams.Post("/", middleware.HasPermission(models.PermissionExamsWrite), examHandler.Create)
	exams.Get("/:examId", middleware.HasPermission(models.PermissionExamsRead), examHandler.Get)
	exams.Delete("/:examId", middleware.HasPermission(models.PermissionExamsWrite), examHandler.Delete)
	exams.Get("/:examId/fees", middleware.HasPermission(models.PermissionFeesRead), feeHandler.ExamFees)
}
