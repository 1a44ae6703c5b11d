package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	applog "alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := applog.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("✅ Config loaded successfully")

	ctx := context.Background()

	// The embedding provider is built once and shared by every request
	provider, err := services.NewEmbeddingProvider(ctx, cfg.Embedding, zl)
	if err != nil {
		zl.Fatal("❌ Failed to initialize embedding provider", zap.Error(err))
	}
	zl.Info("✅ Embedding provider initialized", zap.String("provider", provider.Name()))

	analyzer := services.NewAnalyzerService(provider, zl)
	pdfParser := services.NewPDFParserService()

	var candidateRepo repositories.CandidateRepository
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg, zl)
		if err != nil {
			zl.Fatal("❌ Failed to initialize database", zap.Error(err))
		}
		candidateRepo = repositories.NewCandidateRepository(db)
		zl.Info("✅ Repositories initialized successfully")
	}

	var candidateIndex services.CandidateIndex
	if cfg.QdrantEnabled() {
		candidateIndex, err = initCandidateIndex(ctx, cfg, analyzer, zl)
		if err != nil {
			zl.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
		}
		zl.Info("✅ Qdrant initialized successfully")
	}

	ranker := services.NewRankerService(
		analyzer,
		pdfParser,
		candidateRepo,
		candidateIndex,
		cfg.Worker.Concurrency,
		zl,
	)

	app := newApp(cfg, appDeps{
		provider:       provider,
		analyzer:       analyzer,
		ranker:         ranker,
		candidateRepo:  candidateRepo,
		candidateIndex: candidateIndex,
	}, zl)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			zl.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := "0.0.0.0:" + cfg.Server.Port
	zl.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

// appDeps holds the services the routes are built on. candidateRepo and
// candidateIndex are nil when their backing store is disabled.
type appDeps struct {
	provider       services.EmbeddingProvider
	analyzer       services.AnalyzerService
	ranker         services.RankerService
	candidateRepo  repositories.CandidateRepository
	candidateIndex services.CandidateIndex
}

func newApp(cfg *config.Config, deps appDeps, zl *zap.Logger) *fiber.App {
	analyzeHandler := handlers.NewAnalyzeHandler(deps.analyzer, zl)
	uploadHandler := handlers.NewUploadHandler(deps.ranker, cfg.Storage.MaxFileSize, zl)
	zl.Info("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxBodySize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Post("/analyze", analyzeHandler.HandleAnalyze)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"provider": deps.provider.Name(),
			"time":     time.Now(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)

	endpoints := []string{
		"POST /analyze",
		"GET /api/v1/health",
		"POST /api/v1/upload",
	}

	if deps.candidateRepo != nil {
		candidateHandler := handlers.NewCandidateHandler(deps.candidateRepo, zl)
		api.Get("/candidates", candidateHandler.HandleList)
		api.Get("/candidates/:id", candidateHandler.HandleGet)
		endpoints = append(endpoints, "GET /api/v1/candidates", "GET /api/v1/candidates/:id")
	}

	if deps.candidateIndex != nil {
		searchHandler := handlers.NewSearchHandler(deps.analyzer, deps.candidateIndex, zl)
		api.Post("/candidates/search", searchHandler.HandleSearch)
		endpoints = append(endpoints, "POST /api/v1/candidates/search")
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume Analyzer API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})

	return app
}

// initCandidateIndex sizes the collection from a sample embedding so it
// always matches the configured provider.
func initCandidateIndex(ctx context.Context, cfg *config.Config, analyzer services.AnalyzerService, zl *zap.Logger) (services.CandidateIndex, error) {
	index, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
	if err != nil {
		return nil, err
	}

	sample, err := analyzer.Embed(ctx, "collection size sample")
	if err != nil {
		return nil, err
	}

	if err := index.InitCollection(ctx, uint64(len(sample))); err != nil {
		return nil, err
	}

	return index, nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
