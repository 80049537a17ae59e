package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"paperboy/internal/auth"
	"paperboy/internal/config"
	"paperboy/internal/database"
	"paperboy/internal/handlers"
	"paperboy/internal/llm"
	"paperboy/internal/newsapi"
	"paperboy/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Loaded NEWS_API_KEY: %s", setOrNot(cfg.NewsAPI.APIKey))
	log.Printf("Loaded HF_TOKEN: %s", setOrNot(cfg.LLM.APIKey))

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// External clients
	newsClient := newsapi.NewClient(cfg.NewsAPI.APIKey)
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)

	// Initialize services
	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	questionService := services.NewQuestionService(db)
	pricingService := services.NewPricingService(db)
	betService := services.NewBetService(db, pricingService)
	generatorService := services.NewPollGeneratorService(
		questionService,
		newsClient,
		llm.NewQuestionGenerator(llmClient),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, questionService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	betHandler := handlers.NewBetHandler(betService)
	newsHandler := handlers.NewNewsHandler(newsClient, generatorService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend running...")
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		// Auth
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Questions
		api.GET("/questions", questionHandler.GetQuestions)
		api.GET("/question/:id", questionHandler.GetQuestionByID)
		api.GET("/question/:id/history", questionHandler.GetPriceHistory)
		api.GET("/add", questionHandler.AddTestQuestion)

		// Betting and answers (token carried in the request body)
		api.POST("/bet", betHandler.PlaceBet)
		api.POST("/answer", userHandler.RecordAnswer)

		// News proxy and poll generation
		api.GET("/generate-news", newsHandler.GenerateNews)
		api.GET("/search-news", newsHandler.SearchNews)
		api.GET("/related-news", newsHandler.RelatedNews)
	}

	// Protected routes (Bearer token)
	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/profile", userHandler.GetProfile)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func setOrNot(value string) string {
	if value == "" {
		return "Not Set!"
	}
	return "Set"
}
