package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heartquiz/internal/cache"
	"heartquiz/internal/config"
	"heartquiz/internal/logging"
	"heartquiz/internal/repository"
	"heartquiz/internal/service"
	"heartquiz/internal/transport/rest"
	"heartquiz/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("Server exited")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	logger.Info("Connected to MongoDB", zap.String("db", cfg.MongoDB))
	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))

	wsHub := ws.NewHub(logger)
	publishers := service.Publishers{wsHub}

	if cfg.RabbitURL != "" {
		rabbit, err := service.NewRabbitPublisher(cfg.RabbitURL, logger)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
		logger.Info("Publishing events to RabbitMQ", zap.String("exchange", service.EventsExchange))
	}

	backend := service.NewBackendClient(cfg.Backend, logger)
	authSvc := service.NewAuthService(cfg.JWTSecret, 24*time.Hour)

	sessionSvc := service.NewSessionService(
		cache.NewSessionCache(rdb, cfg.SessionTTL),
		cache.NewHandoffCache(rdb, cfg.HandoffTTL),
		backend,
		backend,
		authSvc,
		cfg.SliderThreshold,
		logger,
	)
	sessionSvc.SetPublisher(publishers)
	sessionSvc.SetSubmissionRepo(repository.NewSubmissionRepo(db))

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		Backend:        backend,
		SessionService: sessionSvc,
		WSHub:          wsHub,
		CORS:           cfg.CORS,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
