package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-service/config"
	"checkout-service/internal/cache"
	"checkout-service/internal/database"
	"checkout-service/internal/logger"
	"checkout-service/internal/migrate"
	"checkout-service/internal/producer"
	"checkout-service/internal/repository"
	"checkout-service/internal/service"
	"checkout-service/internal/transport/http/handlers"
	"checkout-service/internal/transport/http/middleware"
	"checkout-service/internal/transport/http/router"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	if err := migrate.MigrateCheckoutDB(context.Background(), db, log, migrate.DefaultMigrateOptions()); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	repos := repository.New(db)

	var sessions service.SessionCartStore
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		sessions = redisClient
		log.Info("Redis session store enabled")
	} else {
		log.Info("Redis session store disabled, session carts unavailable")
	}

	// Event bus is optional (nil disables publishing)
	var events service.EventBus
	if cfg.Kafka.Enabled {
		checkoutProducer := producer.NewCheckoutProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer checkoutProducer.Close()
		events = checkoutProducer
		log.Info("Kafka checkout events enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	providers := service.NewProviderRegistry(
		service.InvoiceProvider{},
		service.PrepaidProvider{},
	)

	cartSvc := service.NewCartService(repos.CartNodes, repos.CartLeaves, repos.Articles, sessions, log)
	shippingSvc := service.NewShippingService(cartSvc, repos.Articles, repos.ShippingConfigs, repos.Addresses, service.DefaultApplicability, log)
	orderSvc := service.NewOrderService(repos.Orders, repos.Addresses, cartSvc, providers, events, log)

	checkoutHandler := handlers.NewCheckoutHandler(orderSvc, log)
	cartHandler := handlers.NewCartHandler(cartSvc, shippingSvc, log)

	var actorMW gin.HandlerFunc
	if cfg.JWT.Secret != "" {
		actorMW = middleware.ActorOptional(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, log)
	}

	r := router.New(checkoutHandler, cartHandler, actorMW)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting checkout HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down checkout HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("Checkout HTTP server stopped gracefully")
}
