package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/marikuna367/mockbank-api/internal/config"
	"github.com/marikuna367/mockbank-api/internal/handler"
	"github.com/marikuna367/mockbank-api/internal/middleware"
	"github.com/marikuna367/mockbank-api/internal/redisstore"
	"github.com/marikuna367/mockbank-api/internal/repository"
	"github.com/marikuna367/mockbank-api/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.MasterKeyIsDefault() {
		log.Printf("WARNING: MASTER_API_KEY is not set; using the insecure default. Do not deploy like this.")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Rate limiting is best-effort: without Redis the API runs unlimited.
	var counter middleware.WindowCounter
	if cfg.RedisAddr != "" {
		redis, err := redisstore.NewClient(cfg.RedisAddr, "", 0)
		if err != nil {
			log.Printf("Warning: could not initialize rate limiter (Redis): %v", err)
		} else {
			defer redis.Close()
			counter = middleware.NewRedisCounter(redis.Client)
		}
	}

	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)

	ledger := service.NewLedger(accountRepo, transactionRepo)
	keySvc := service.NewAPIKeyService(keyRepo)

	accountHandler := handler.NewAccountHandler(ledger)
	transactionHandler := handler.NewTransactionHandler(ledger)
	keyHandler := handler.NewAPIKeyHandler(keySvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "MockBank API running"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.RateLimit(counter, cfg.RateLimitPerMinute)

	accounts := router.Group("/accounts", limiter)
	accounts.POST("/keys", middleware.MasterKeyAuth(cfg.MasterKey), keyHandler.CreateKey)
	authed := accounts.Group("", middleware.APIKeyAuth(keySvc))
	{
		authed.POST("", accountHandler.CreateAccount)
		authed.GET("", accountHandler.ListAccounts)
		authed.GET("/:id", accountHandler.GetAccount)
	}

	transactions := router.Group("/transactions", limiter, middleware.APIKeyAuth(keySvc))
	{
		transactions.POST("", transactionHandler.CreateTransaction)
		transactions.GET("", transactionHandler.ListTransactions)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("MockBank API starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
