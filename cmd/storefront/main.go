package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Zombie-01/tire/internal/cache"
	"github.com/Zombie-01/tire/internal/cart"
	"github.com/Zombie-01/tire/internal/catalog"
	"github.com/Zombie-01/tire/internal/checkout"
	"github.com/Zombie-01/tire/internal/config"
	"github.com/Zombie-01/tire/internal/events"
	h "github.com/Zombie-01/tire/internal/http"
	"github.com/Zombie-01/tire/internal/orders"
	"github.com/Zombie-01/tire/internal/payment"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog store (MongoDB)
	mongoDB, err := catalog.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("error disconnecting from MongoDB")
		}
	}()

	// Cart storage and catalog cache share one Redis connection.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}

	// Orders store (PostgreSQL)
	creds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	orderRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to PostgreSQL")
	}
	defer orderRepo.Close()

	if err := orderRepo.RunMigrations(creds); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database migrations completed")

	// Domain services
	catalogService := catalog.NewService(
		catalog.NewMongoRepository(mongoDB),
		cache.NewRedisCache(redisClient),
		log,
	)
	cartStore := cart.NewStore(cart.NewRedisStorage(redisClient), log)
	gateway := payment.NewQPayClient(cfg.QPayBaseURL, cfg.QPayToken, cfg.RequestTimeout)

	sequencer := checkout.NewSequencer(
		cartStore,
		gateway,
		orderRepo,
		func(err error) bool { return errors.Is(err, orders.ErrDuplicateOrder) },
		cfg.PaymentPollInterval,
		log,
	)
	defer sequencer.Close()

	// Outbox poller publishes order events to Kafka.
	var wg sync.WaitGroup
	outboxPoller := events.NewOutboxPoller(orderRepo, log, cfg.KafkaBrokers...)
	defer outboxPoller.Close()
	wg.Add(1)
	go func() {
		defer wg.Done()
		outboxPoller.Run(ctx)
	}()

	router := h.NewRouter(h.RouterDeps{
		Auth:           h.NewAuthenticator(cfg.JWTSecret),
		Cart:           h.NewCartHandler(cartStore, catalogService, cfg.RequestTimeout),
		Products:       h.NewProductHandler(catalogService, cfg.RequestTimeout),
		Checkout:       h.NewCheckoutHandler(sequencer, cfg.RequestTimeout),
		Orders:         h.NewOrdersHandler(orderRepo, cfg.RequestTimeout),
		Admin:          h.NewAdminHandler(catalogService, orderRepo, cfg.RequestTimeout),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	cancel()
	wg.Wait()
	log.Info("server exited")
}
