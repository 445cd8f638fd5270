package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelforge/reelforge/internal/config"
	"github.com/reelforge/reelforge/internal/database"
	"github.com/reelforge/reelforge/internal/handlers"
	"github.com/reelforge/reelforge/internal/logger"
	"github.com/reelforge/reelforge/internal/queue"
	"github.com/reelforge/reelforge/internal/repository"
	"github.com/reelforge/reelforge/internal/router"
	"github.com/reelforge/reelforge/internal/services"
)

func main() {

	ctx := context.Background()

	// Load application configuration
	cfg := config.New()
	log.Println("Configuration loaded successfully")

	// Initialize structured logging
	logger.Init(cfg.LogLevel)

	// Initialize database configuration
	dbConfig := database.NewConfig(cfg)

	log.Printf("Initializing DynamoDB client for tables: %s, %s in region: %s",
		dbConfig.ProductionsTable, dbConfig.BrandAssetsTable, dbConfig.Region)

	// Create DynamoDB client
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	log.Println("DynamoDB client initialized successfully")

	// Initialize database operations
	productionDB := database.NewProductionOperations(dbClient, cfg.ProductionsTableName)
	brandAssetDB := database.NewBrandAssetOperations(dbClient, cfg.BrandAssetsTableName)

	// Initialize repositories
	productionRepo := repository.NewProductionRepository(productionDB)
	brandAssetRepo := repository.NewBrandAssetRepository(brandAssetDB)
	log.Println("Repositories initialized with DynamoDB backend")

	// Load the provider catalog
	catalog := services.DefaultCatalog()
	if cfg.ProviderCatalogPath != "" {
		catalog, err = services.LoadCatalog(cfg.ProviderCatalogPath)
		if err != nil {
			log.Fatalf("Failed to load provider catalog from %s: %v", cfg.ProviderCatalogPath, err)
		}
		log.Printf("Provider catalog loaded from %s", cfg.ProviderCatalogPath)
	}

	// Initialize provider selection
	selector := services.NewSelectorService(catalog)
	log.Println("Provider selector initialized")

	// Initialize scene classification. Without an API key the
	// deterministic rule classifier serves directly.
	ruleClassifier := services.NewRuleClassifier(catalog)
	var classifier services.SceneClassifier = ruleClassifier
	if cfg.GeminiAPIKey != "" {
		geminiClassifier, err := services.NewGeminiClassifier(cfg.GeminiAPIKey, cfg.GeminiModel, catalog, ruleClassifier)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini classifier: %v", err)
		}
		defer geminiClassifier.Close()
		classifier = geminiClassifier
		log.Printf("Gemini classifier initialized with model %s", cfg.GeminiModel)
	} else {
		log.Println("No Gemini API key configured, using rule-based classifier")
	}

	// Initialize brand asset matching
	brandMatcher := services.NewBrandMatcher(brandAssetRepo)

	// Generation capabilities. Image and motion are served by the stock
	// library until real provider clients are wired in; voiceover and
	// evaluation are absent, which selects their degraded paths.
	stock := services.NewStockLibrary()
	caps := services.CapabilitySet{
		Scripting: services.NewTemplateScripting(),
		Image:     stock,
		Motion:    stock,
	}

	// Initialize quality gate over the configured evaluator
	gate := services.NewQualityGate(caps.Evaluator)

	// Initialize the pipeline
	pipeline := services.NewPipelineService(productionRepo, selector, classifier, gate, brandMatcher, caps)
	log.Println("Production pipeline initialized")

	// Initialize job queue
	jobQueue := queue.NewJobQueue(cfg.QueueSize)
	log.Println("Job queue initialized")

	// Run registry lets the cancel endpoint reach in-flight runs
	registry := services.NewRunRegistry()

	// Initialize worker pool
	workerPool := queue.NewWorkerPool(jobQueue, cfg.WorkerCount)
	log.Printf("Worker pool created with %d concurrent workers", cfg.WorkerCount)

	// Start workers
	workerPool.Start(func(job *queue.ProductionJob) error {
		production, err := productionRepo.Get(ctx, job.ProductionID)
		if err != nil {
			return err
		}
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		registry.Register(job.ProductionID, cancel)
		defer registry.Unregister(job.ProductionID)
		return pipeline.Run(runCtx, production)
	})
	log.Println("Production workers started")

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	productionHandler := handlers.NewProductionHandler(productionRepo, selector, jobQueue, registry)
	log.Println("Handlers initialized")

	// Setup router
	r := router.Setup(cfg.JWTSecret, healthHandler, productionHandler)

	// Setup graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server gracefully...")

		// Close job queue to stop accepting new jobs
		jobQueue.Close()
		log.Println("Job queue closed, waiting for workers to finish...")

		// Wait for workers to finish processing current jobs
		workerPool.Wait()
		log.Println("All workers stopped")

		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
