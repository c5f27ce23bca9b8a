package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"offer-service/config"
	"offer-service/internal/api"
	"offer-service/internal/auth"
	"offer-service/internal/broker"
	"offer-service/internal/money"
	"offer-service/internal/redisclient"
	"offer-service/internal/render"
	"offer-service/internal/service"
	"offer-service/internal/shortcode"
	"offer-service/internal/store"
	"offer-service/internal/util"
	"offer-service/internal/worker"

	"github.com/gin-gonic/gin"
)

const serviceName = "offer-service"

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, serviceName); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting offer service")

	tp, err := util.InitTracer(serviceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	loc, err := time.LoadLocation(cfg.Store.Timezone)
	if err != nil {
		log.Fatalf("Invalid store timezone %q: %v", cfg.Store.Timezone, err)
	}

	db, err := store.NewStore(cfg.Database.URL, cfg.Database.TablePrefix)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		log.Fatalf("Failed to migrate database: %v", err)
	}
	migrateCancel()

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOffers)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	offers := service.NewCachedOfferRepository(db, redisClient, time.Duration(cfg.Redis.OfferCacheTTL)*time.Second)
	nonces := auth.NewNonceService(cfg.Security.NonceSecret, cfg.Security.NonceTTLHours)

	renderer, err := render.NewRenderer(cfg.Store.BaseURL, money.NewFormatter(cfg.Store))
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	cartTTL := time.Duration(cfg.Redis.CartTTLHours) * time.Hour
	countdownService := service.NewCountdownService(offers, renderer, loc)
	bogoService := service.NewBogoService(db, offers, redisClient, nonces, eventPublisher, renderer, cartTTL)
	specialOfferService := service.NewSpecialOfferService(db, offers, countdownService, renderer)
	resolver := service.NewOfferResolver(offers)
	savingsService := service.NewSavingsService(db, db, offers, resolver, eventPublisher, renderer)

	shortcodes := shortcode.NewExpander()
	shortcodes.Register(service.SpecialOfferTag, specialOfferService.ShortcodeHandler())

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	offerConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOffers, cfg.Kafka.ConsumerGroup)
	cacheWorker := worker.NewOfferCacheWorker(offerConsumer, redisClient)
	go func() {
		if err := cacheWorker.Start(workerCtx); err != nil {
			log.Printf("Offer cache worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Dependencies{
		Bogo:         bogoService,
		SpecialOffer: specialOfferService,
		Countdown:    countdownService,
		Savings:      savingsService,
		Shortcodes:   shortcodes,
		Nonces:       nonces,
		Cart:         redisClient,
		Checks: map[string]api.Pinger{
			"database": db,
			"redis":    redisClient,
		},
		CartTTL: cartTTL,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	cacheWorker.Stop()

	log.Println("Server exited")
}
