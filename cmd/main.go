package main

import (
	"context"
	"log"
	"os"
	"time"

	"learnhub-backend/config"
	httpDelivery "learnhub-backend/internal/delivery/http"
	"learnhub-backend/internal/repository"
	"learnhub-backend/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to databases
	db := config.ConnectDB()
	pg := db.PG
	mongo := db.Mongo

	// Auto migrate relational tables
	if err := config.AutoMigrate(pg); err != nil {
		log.Fatal("Migration failed:", err)
	}

	// The unique (user_id, course_id) index is what makes duplicate enrolls
	// safe under concurrency; refuse to start without it.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.EnsureEnrollmentIndexes(ctx, mongo); err != nil {
		log.Fatal("Failed to create enrollment indexes:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pg)
	tenantRepo := repository.NewTenantRepository(pg)
	courseRepo := repository.NewCourseRepository(pg)
	ratingRepo := repository.NewRatingRepository(pg)
	sectionRepo := repository.NewSectionRepository(mongo)
	chapterRepo := repository.NewChapterRepository(mongo)
	enrollRepo := repository.NewEnrollmentRepository(mongo)

	assetStore, err := repository.NewAssetStore(mongo)
	if err != nil {
		log.Fatal("Failed to initialize asset store:", err)
	}

	// Initialize usecases
	curriculumUsecase := usecase.NewCurriculumUsecase(courseRepo, sectionRepo, chapterRepo)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(courseRepo, chapterRepo, enrollRepo)
	quizUsecase := usecase.NewQuizUsecase(chapterRepo, enrollRepo)
	courseUsecase := usecase.NewCourseUsecase(courseRepo, userRepo, tenantRepo, sectionRepo, chapterRepo, ratingRepo)

	// Initialize handlers
	fileHandler := httpDelivery.NewFileHandler(assetStore)
	apiHandler := httpDelivery.NewHandler(curriculumUsecase, enrollmentUsecase, quizUsecase, courseUsecase, fileHandler)

	router := httpDelivery.InitRouter(apiHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	log.Printf("API: http://localhost:%s/api", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
