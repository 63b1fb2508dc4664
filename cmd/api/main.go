package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quizdesk/internal/ai"
	"quizdesk/internal/config"
	"quizdesk/internal/database"
	"quizdesk/internal/handler"
	"quizdesk/internal/logger"
	"quizdesk/internal/middleware"
	"quizdesk/internal/repository"
	"quizdesk/internal/service"
	"quizdesk/internal/settings"
	"quizdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Open the question store
	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	appLogger.Info("Question store ready", zap.String("path", cfg.Database.Path))

	// Preference store
	settingsStore := settings.NewStore(cfg.Settings.Path)

	// Explanation client
	aiClient := ai.NewClient(cfg.AI.RequestTimeout)

	// Initialize services
	quizService := service.NewQuizService(questionRepository, settingsStore)
	explanationService := service.NewExplanationService(settingsStore, aiClient)

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(quizService)
	importHandler := handler.NewImportHandler(quizService)
	settingsHandler := handler.NewSettingsHandler(settingsStore)
	explanationHandler := handler.NewExplanationHandler(quizService, explanationService)
	examHandler := handler.NewExamHandler()
	staticHandler := handler.NewStaticHandler(cfg.Server.StaticDir)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestid.New(requestid.Config{Generator: util.NewULID}))
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	apiGroup.Get("/questions", questionHandler.GetAllQuestions)
	apiGroup.Get("/questions/search", questionHandler.SearchQuestions)
	apiGroup.Get("/questions/mistakes", questionHandler.GetMistakeQuestions)
	apiGroup.Get("/questions/favorites", questionHandler.GetFavoriteQuestions)
	apiGroup.Get("/questions/random/:count", questionHandler.GetRandomQuestions)
	apiGroup.Get("/questions/category/:category", questionHandler.GetQuestionsByCategory)
	apiGroup.Get("/questions/:id", questionHandler.GetQuestionByID)

	apiGroup.Get("/categories", questionHandler.GetCategories)
	apiGroup.Get("/statistics", questionHandler.GetStatistics)

	apiGroup.Post("/answers", questionHandler.RecordAnswer)
	apiGroup.Post("/favorites/:id/toggle", questionHandler.ToggleFavorite)
	apiGroup.Get("/notes/:id", questionHandler.GetNote)
	apiGroup.Post("/notes/:id", questionHandler.SaveNote)

	apiGroup.Post("/import", importHandler.ImportFile)
	apiGroup.Post("/import/preview", importHandler.PreviewFile)
	apiGroup.Post("/explanations", explanationHandler.Explain)

	apiGroup.Get("/settings", settingsHandler.GetSettings)
	apiGroup.Post("/settings", settingsHandler.UpdateSettings)

	apiGroup.Post("/results", examHandler.SaveResult)
	apiGroup.Get("/results", examHandler.GetResults)

	// Static UI last so /api keeps precedence
	staticHandler.Register(app)

	// Start server, walking up the port range on bind conflicts
	go func() {
		port := cfg.Server.Port
		for attempt := 1; ; attempt++ {
			appLogger.Info("Starting server", zap.Int("port", port))
			err := app.Listen(fmt.Sprintf(":%d", port))
			if err == nil {
				return
			}
			if attempt >= cfg.Server.MaxPortAttempts || !isAddrInUse(err) {
				appLogger.Fatal("Failed to start server", zap.Error(err))
			}
			appLogger.Warn("Port in use, trying next",
				zap.Int("port", port),
				zap.Int("next", port+1),
			)
			port++
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := questionRepository.Close(); err != nil {
		appLogger.Error("Failed to close question store", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func isAddrInUse(err error) bool {
	return strings.Contains(err.Error(), "address already in use") ||
		strings.Contains(err.Error(), "bind")
}
