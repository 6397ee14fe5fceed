package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/handlers"
	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/repositories"
	"careerpath/career-advisor/internal/services"
)

const backgroundJobTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Log)
	logger.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	ctx := context.Background()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	historyRepo := repositories.NewHistoryRepository(db)
	trackerRepo := repositories.NewTrackerRepository(db)
	userRepo := repositories.NewUserRepository(db)
	logger.Info().Msg("✅ Repositories initialized successfully")

	// Language model and agents
	gateway, err := services.NewCompletionGateway(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize completion gateway")
	}
	logger.Info().Str("provider", gateway.Provider()).Msg("✅ Completion gateway initialized")

	prompts := services.DefaultPromptLibrary()
	if cfg.LLM.PromptsFile != "" {
		prompts, err = services.LoadPromptLibrary(cfg.LLM.PromptsFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.LLM.PromptsFile).Msg("❌ Failed to load prompt library")
		}
	}

	advisors, err := services.NewAdvisorFactory(gateway, prompts, services.AdvisorOptionsFromConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize career advisor")
	}
	jobAnalyzer := services.NewJobAnalyzer(gateway, prompts, cfg.LLM.MaxTokens)
	logger.Info().Msg("✅ Agents initialized successfully")

	// Resume handling
	resumeParser := services.NewResumeParser()
	resumeStore, err := services.NewResumeStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize resume storage")
	}
	logger.Info().Str("backend", resumeStore.Backend()).Msg("✅ Resume storage initialized")

	authService := services.NewAuthService(userRepo, 0)

	// Optional integrations
	publisher, err := services.NewEventPublisher(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to connect to RabbitMQ")
	}

	var rateLimiter services.RateLimiter
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Redis unreachable, rate limiting fails open until it recovers")
		}
		rateLimiter = services.NewRedisRateLimiter(redisClient, cfg.Redis.RateLimit, cfg.Redis.Window)
		logger.Info().Int("limit", cfg.Redis.RateLimit).Dur("window", cfg.Redis.Window).Msg("✅ Rate limiting enabled")
	}

	var memory services.CareerMemory
	if cfg.Qdrant.URL != "" {
		memory, err = initCareerMemory(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("❌ Failed to initialize career memory")
		}
		logger.Info().Msg("✅ Career memory initialized successfully")
	}

	// Background processing
	worker := services.NewWorker(cfg.Worker.Concurrency, cfg.Worker.QueueSize, backgroundJobTimeout)
	worker.Start(ctx)

	scheduler := services.NewAnalyticsScheduler(trackerRepo, cfg.Scheduler.AnalyticsSpec)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to start analytics scheduler")
	}

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(advisors, prompts, historyRepo, trackerRepo, publisher, worker)
	resumeHandler := handlers.NewResumeHandler(resumeParser, resumeStore, advisors, jobAnalyzer, cfg.Storage.MaxFileSize)
	historyHandler := handlers.NewHistoryHandler(historyRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(trackerRepo, publisher, worker)
	authHandler := handlers.NewAuthHandler(authService, publisher, worker)
	agentHandler := handlers.NewAgentHandler(advisors)
	logger.Info().Msg("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CareerPath AI API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.RequestTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes
	api := app.Group("/api/v1")

	analyzeRoute := []fiber.Handler{analyzeHandler.HandleAnalyze}
	if rateLimiter != nil {
		analyzeRoute = append([]fiber.Handler{handlers.RateLimit(rateLimiter)}, analyzeRoute...)
	}
	api.Post("/analyze", analyzeRoute...)

	api.Post("/parse-resume", resumeHandler.HandleParseResume)
	api.Post("/resume/analyze", resumeHandler.HandleAnalyzeResume)
	api.Post("/skills/extract", resumeHandler.HandleExtractSkills)
	api.Post("/skills/compare", resumeHandler.HandleCompareSkills)

	api.Post("/market/demand", agentHandler.HandleRoleDemand)
	api.Post("/market/trending", agentHandler.HandleTrendingSkills)
	api.Post("/market/compare", agentHandler.HandleCompareRoles)
	api.Post("/skills/assess", agentHandler.HandleAssessSkills)
	api.Post("/learning-plan", agentHandler.HandleLearningPlan)
	api.Post("/strategy/application", agentHandler.HandleApplicationStrategy)
	api.Post("/strategy/resume-section", agentHandler.HandleOptimizeResume)
	api.Post("/strategy/interview", agentHandler.HandleInterviewQuestions)

	api.Get("/history/:user_id", historyHandler.HandleGetHistory)
	api.Post("/history/bulk-delete", historyHandler.HandleBulkDelete)
	api.Post("/history/bulk-archive", historyHandler.HandleBulkArchive)

	api.Get("/analytics/searches", analyticsHandler.HandleSearches)
	api.Get("/analytics/popular-roles", analyticsHandler.HandlePopularRoles)
	api.Get("/analytics/summary", analyticsHandler.HandleSummary)
	api.Get("/user/:user_id/searches", analyticsHandler.HandleUserSearches)
	api.Post("/activity", analyticsHandler.HandleActivity)

	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)

	if memory != nil {
		memoryHandler := handlers.NewMemoryHandler(memory)
		api.Post("/memory/skills", memoryHandler.HandleStoreSkills)
		api.Get("/memory/skills/similar", memoryHandler.HandleSimilarSkills)
		api.Post("/memory/progress", memoryHandler.HandleProgress)
		api.Post("/memory/jobs", memoryHandler.HandleStoreJob)
		api.Get("/memory/jobs/similar", memoryHandler.HandleSimilarJobs)
		api.Get("/memory/knowledge", memoryHandler.HandleKnowledge)
		api.Get("/memory/:user_id/coverage", memoryHandler.HandleCoverage)
	}

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CareerPath AI API is running 🚀",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/analyze",
				"POST /api/v1/parse-resume",
				"POST /api/v1/resume/analyze",
				"POST /api/v1/skills/extract",
				"GET /api/v1/history/:user_id",
				"POST /api/v1/history/bulk-delete",
				"POST /api/v1/history/bulk-archive",
				"GET /api/v1/analytics/summary",
				"POST /api/v1/auth/register",
				"POST /api/v1/auth/login",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		logger.Error().Err(err).Msg("❌ Failed to start server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	worker.Stop()
	if err := publisher.Close(); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Failed to close event publisher")
	}
	if redisClient != nil {
		redisClient.Close()
	}
	logger.Info().Msg("✅ Shutdown complete")
}

// initCareerMemory connects Qdrant and a Gemini embedder. Embeddings always come from Gemini,
// whichever provider serves completions.
func initCareerMemory(ctx context.Context, cfg *config.Config) (services.CareerMemory, error) {
	store, err := services.NewQdrantService(cfg.Qdrant)
	if err != nil {
		return nil, err
	}
	if err := store.InitCollection(ctx); err != nil {
		return nil, err
	}

	embedder, err := services.NewGeminiService(ctx, cfg.Gemini, cfg.LLM.Temperature)
	if err != nil {
		return nil, fmt.Errorf("career memory needs gemini embeddings: %w", err)
	}

	return services.NewCareerMemory(store, embedder, services.NewTextChunker()), nil
}
