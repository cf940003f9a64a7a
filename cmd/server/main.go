package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/adapter/geocode"
	httpadapter "github.com/wanderstay/listing-service/internal/adapter/http"
	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	natsadapter "github.com/wanderstay/listing-service/internal/adapter/messaging/nats"
	"github.com/wanderstay/listing-service/internal/adapter/repository/cache"
	"github.com/wanderstay/listing-service/internal/adapter/repository/mongodb"
	"github.com/wanderstay/listing-service/internal/adapter/storage/s3"
	"github.com/wanderstay/listing-service/internal/config"
	listingusecase "github.com/wanderstay/listing-service/internal/listing/usecase"
	"github.com/wanderstay/listing-service/internal/mailer"
	"github.com/wanderstay/listing-service/internal/platform/logger"
	"github.com/wanderstay/listing-service/internal/platform/metrics"
	"github.com/wanderstay/listing-service/internal/platform/tracer"
	userusecase "github.com/wanderstay/listing-service/internal/user/usecase"
)

func main() {
	// A .env file is optional outside local development.
	_ = godotenv.Load()

	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.LoadConfig(log)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.OTExporterOTLPEndpoint != "" {
		tp := tracer.InitTracer(cfg.ServiceName)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Error("Failed to shut down tracer provider", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		log.Warn("Redis unavailable, running without listing cache", zap.Error(err))
		listingCache = nil
	}

	imageStorage, err := s3.NewS3Storage(
		cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Fatal("Failed to initialize MinIO storage", zap.Error(err))
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	geocoder := geocode.NewNominatimClient(
		cfg.GeocoderBaseURL, time.Duration(cfg.GeocoderTimeoutSeconds)*time.Second, log)

	var listingMailer listingusecase.Mailer
	if cfg.SMTPEmail != "" {
		listingMailer = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	}

	mm := metrics.NewMetricsManager(cfg.ServiceName)
	go mm.Serve(cfg.MetricsPort, log)

	// The guard and usecase share the cache; a nil cache degrades to
	// repository-only lookups.
	var guardCache listingusecase.ListingCache
	if listingCache != nil {
		guardCache = listingCache
	}

	guard := listingusecase.NewOwnershipGuard(listingRepo, guardCache, log)
	listingUC := listingusecase.NewListingUsecase(
		listingRepo, userRepo, guard, geocoder, imageStorage, guardCache, publisher, listingMailer, mm, log)
	userUC := userusecase.NewUserUsecase(userRepo, cfg.JWTSecret, log)

	sm := session.NewManager(cfg.SessionSecret)
	listingHandler := httpadapter.NewListingHandler(listingUC, sm, log)
	userHandler := httpadapter.NewUserHandler(userUC, sm, log)

	router := httpadapter.NewRouter(cfg.ServiceName, listingHandler, userHandler, sm, cfg.JWTSecret, mm, log)
	server := httpadapter.NewServer(":"+cfg.HTTPPort, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
		if err := server.Shutdown(context.Background()); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
		}
	}

	log.Info("Listing service stopped")
}
