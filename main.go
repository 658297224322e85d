package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"spendwise-api/config"
	"spendwise-api/handlers"
	"spendwise-api/middleware"
	"spendwise-api/routes"
	"spendwise-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	go scheduleSessionCleanup(db)

	var cache services.SummaryCache = services.NoopCache{}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache = services.NewRedisSummaryCache(redisURL)
		log.Println("✅ Redis summary cache enabled")
	}

	ledgers := services.NewLedgerService(db, services.SystemClock{}, cache)
	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("📨 %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db, ledgers)
		v1.GET("/ws/ledgers/:id", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupLedgerRoutes(protected, ledgers, wsHandler)
			routes.SetupUserRoutes(protected, db)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func scheduleSessionCleanup(db *sql.DB) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	cleanExpiredSessions(db)
	for range ticker.C {
		cleanExpiredSessions(db)
	}
}

func cleanExpiredSessions(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		log.Printf("❌ Session cleanup failed: %v", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		log.Printf("🧹 Cleaned %d expired sessions", rows)
	}
}
