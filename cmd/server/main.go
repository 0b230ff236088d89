package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"autoadvisor/internal/config"
	"autoadvisor/internal/handler"
	"autoadvisor/internal/repository"
	"autoadvisor/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("AutoAdvisor API")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()
	log.Println("Connected to PostgreSQL database")

	// Initialize the completion client
	aiClient := service.NewOpenAIClient(&cfg.LLM)
	log.Printf("Completion client initialized")
	log.Printf("   - API Base: %s", cfg.LLM.APIBase)
	log.Printf("   - Extract model: %s (temp %.2f, max %d tokens)", cfg.LLM.ExtractModel, cfg.LLM.ExtractTemperature, cfg.LLM.ExtractMaxTokens)
	log.Printf("   - Advisor model: %s (temp %.2f, max %d tokens)", cfg.LLM.AdvisorModel, cfg.LLM.AdvisorTemperature, cfg.LLM.AdvisorMaxTokens)
	log.Printf("   - Embedding model: %s", cfg.LLM.EmbeddingModel)

	// Initialize services
	kb := repository.NewCSVKnowledgeBase(cfg.KB.CSVPath)
	retriever := service.NewRetriever(kb)
	extractor := service.NewListingExtractionService(aiClient, &cfg.LLM)
	advisor := service.NewAdvisoryService(aiClient, retriever, &cfg.LLM)
	log.Printf("Services initialized (knowledge base: %s)", cfg.KB.CSVPath)

	// Initialize handlers
	analyzeHandler := handler.NewAnalyzeHandler(extractor, advisor, repo, aiClient)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = strings.Split(cfg.Server.AllowedMethods, ",")
	corsConfig.AllowHeaders = strings.Split(cfg.Server.AllowedHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "autoadvisor-api",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/analyze", analyzeHandler.Analyze)
		apiV1.POST("/extract", analyzeHandler.Extract)
		apiV1.POST("/advise", analyzeHandler.Advise)
		apiV1.GET("/listings/:id", analyzeHandler.GetListing)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}
