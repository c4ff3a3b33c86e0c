package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodhub-be/internal/catalog"
	"foodhub-be/internal/config"
	"foodhub-be/internal/db"
	"foodhub-be/internal/logger"
	"foodhub-be/internal/metrics"
	"foodhub-be/internal/order"
	"foodhub-be/internal/payment"
	"foodhub-be/internal/report"
	"foodhub-be/internal/search"
	"foodhub-be/internal/transport"
	"foodhub-be/internal/visit"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	searchRepo := search.NewRepository(database)
	searchPublisher := search.NewKafkaPublisher(cfg.KafkaBrokers, cfg.SearchTopic)
	defer searchPublisher.Close()
	searchConsumer := search.NewConsumer(cfg.KafkaBrokers, cfg.SearchTopic, searchRepo)

	visitStore := visit.NewRedisStore(redisClient)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, searchPublisher)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	gateway := payment.NewKhaltiGateway(cfg.KhaltiBaseURL, cfg.KhaltiSecretKey)
	pendingStore := payment.NewRedisPendingStore(redisClient)
	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(gateway, pendingStore, paymentRepo, orderRepo)

	reportRepo := report.NewRepository(database)
	reportSvc := report.NewService(reportRepo, visitStore, searchRepo, cfg.MarginThreshold)

	mailer := report.NewHTTPMailer(cfg.MailerURL)
	scheduler := report.NewScheduler(reportRepo, mailer)

	httpMetrics := metrics.New()

	router := transport.NewRouter(transport.RouterDeps{
		Reports:        transport.NewReportHandler(reportSvc),
		Payments:       transport.NewPaymentHandler(paymentSvc),
		Catalog:        transport.NewCatalogHandler(catalogSvc),
		Orders:         transport.NewOrderHandler(orderSvc),
		Metrics:        httpMetrics,
		Visits:         visitStore,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := searchConsumer.Start(ctx); err != nil {
			log.Error("search consumer exited", zap.Error(err))
		}
	}()
	go scheduler.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Info("🚀 server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()
	scheduler.Stop()
	searchConsumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
