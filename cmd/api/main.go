package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cinematic-app/cinematic-api/internal/auth"
	"github.com/cinematic-app/cinematic-api/internal/config"
	"github.com/cinematic-app/cinematic-api/internal/handler"
	"github.com/cinematic-app/cinematic-api/internal/mailer"
	"github.com/cinematic-app/cinematic-api/internal/repository"
	"github.com/cinematic-app/cinematic-api/internal/usecase"
	"github.com/cinematic-app/cinematic-api/internal/videogen"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "cinematic-api").Logger()

	cfg := config.New(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	sessionRepo := repository.NewSessionMongoRepository(ctx, &logger, db)
	videoRepo := repository.NewVideoMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.SecretKey)
	smtpMailer := mailer.NewMailer(cfg.SMTP)
	generator := videogen.New(cfg.VideoGeneratorURL, cfg.VideoOutputDir)

	tokens := usecase.NewTokenUsecase(sessionRepo, userRepo, jwtAuth, cfg.Token)
	accounts := usecase.NewAccountUsecase(userRepo, sessionRepo, tokens, smtpMailer, cfg, &logger)
	videos := usecase.NewVideoUsecase(videoRepo, generator, cfg.VideoOutputDir, &logger)
	payments := usecase.NewPaymentUsecase(cfg.Stripe, &logger)

	h := handler.New(&logger, cfg, accounts, tokens, videos, payments)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down HTTP server gracefully")
	}
}
