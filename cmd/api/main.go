// @title LearnAdapt Quiz API
// @version 1.0
// @description Quiz generation and evaluation backend driven by two LLM providers.
// @host localhost:8000
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnadapt/internal/adapter/quizgen"
	"learnadapt/internal/adapter/report"
	"learnadapt/internal/config"
	"learnadapt/internal/handler"
	"learnadapt/internal/logger"
	"learnadapt/internal/middleware"
	"learnadapt/internal/service"
	"learnadapt/internal/store"
	"learnadapt/internal/validation"

	_ "learnadapt/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Secrets come from .env in development; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Question generation provider (Gemini via langchaingo)
	geminiLLM, err := googleai.New(context.Background(),
		googleai.WithAPIKey(cfg.Gemini.APIKey),
		googleai.WithDefaultModel(cfg.Gemini.Model),
	)
	if err != nil {
		appLogger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	generator := quizgen.NewGeminiQuestionGenerator(geminiLLM, cfg.Gemini.Temperature, appLogger)
	appLogger.Info("Question generator initialized", zap.String("model", cfg.Gemini.Model))

	// Report provider (Groq, OpenAI-compatible endpoint)
	reporter := report.NewGroqReportGenerator(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model, appLogger)
	appLogger.Info("Report generator initialized",
		zap.String("model", cfg.Groq.Model),
		zap.String("base_url", cfg.Groq.BaseURL))

	// The store holds the answer key of the single active quiz session.
	sessionStore := store.NewSessionStore()

	quizService := service.NewQuizService(sessionStore, generator, reporter, cfg)
	quizHandler := handler.NewQuizHandler(quizService, validation.NewValidator(cfg.Quiz.MaxQuestions))

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")
	quizGroup := apiGroup.Group("/quiz")
	quizGroup.Post("/generate", quizHandler.GenerateQuiz)
	quizGroup.Post("/evaluate", quizHandler.EvaluateQuiz)
	quizGroup.Post("/score-essay", quizHandler.ScoreEssay)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
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
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
