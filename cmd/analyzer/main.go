// Command analyzer is the reference analysis backend: it serves sampled
// questions and scores submitted answers in PAD space.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heartquiz/internal/config"
	"heartquiz/internal/logging"
	"heartquiz/internal/pad"
	"heartquiz/internal/questionbank"
	"heartquiz/internal/transport/analyzer"

	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg := config.LoadAnalyzer()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	bank, err := questionbank.LoadFiles(cfg.LikertFile, cfg.SceneFile)
	if err != nil {
		// Serve anyway; /questions reports the empty bank
		logger.Error("Failed to load questionnaires",
			zap.String("likert", cfg.LikertFile),
			zap.String("scene", cfg.SceneFile),
			zap.Error(err))
		bank, _ = questionbank.New(nil, nil)
	}
	logger.Info("Question bank loaded", zap.Int("questions", bank.Len()))

	engine, err := pad.NewEngine(pad.Method(cfg.Normalization), logger)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	logger.Info("PAD engine initialized",
		zap.Int("emotions", len(pad.Emotions)),
		zap.String("normalization", string(engine.Method())))

	handler := analyzer.NewHandler(bank, engine, cfg.SampleSize, cfg.TopEmotions, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           analyzer.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Analyzer starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down analyzer...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Analyzer forced to shutdown", zap.Error(err))
	}
}
