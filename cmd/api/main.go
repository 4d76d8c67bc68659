package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/storefront-api/internal/infrastructure/jwt"
	redisinfra "github.com/storefront-api/internal/infrastructure/redis"
	s3infra "github.com/storefront-api/internal/infrastructure/s3"
	"github.com/storefront-api/internal/infrastructure/smtp"
	"github.com/storefront-api/internal/infrastructure/sns"
	transporthttp "github.com/storefront-api/internal/transport/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		logger.Error("jwt provider unavailable, cannot issue sessions", "error", err)
		os.Exit(1)
	}

	// Redis cart cache (optional — the cart service falls back to DynamoDB).
	var cartCache redisinfra.CartCache
	if cfg.RedisAddr != "" {
		cartCache = redisinfra.NewCartCache(redisinfra.NewClient(cfg))
	} else {
		logger.Warn("redis not configured, cart reads go straight to the store")
	}

	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — order confirmations skip SMS without it).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		logger.Warn("sns sender not available", "error", err)
	}

	deps := &transporthttp.Deps{
		ProductRepo:      dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products),
		CartRepo:         dynamo.NewCartRepo(dynamoClient, cfg.DynamoTables.Carts),
		CustomerRepo:     dynamo.NewCustomerRepo(dynamoClient, cfg.DynamoTables.Customers),
		OrderRepo:        dynamo.NewOrderRepo(dynamoClient, cfg.DynamoTables.Orders),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		CartCache:        cartCache,
		S3Store:          s3Store,
		Mailer:           mailer,
		SMSSender:        smsSender,
		JWTProvider:      jwtProvider,
		Logger:           logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
