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

	"github.com/Bankydog/auth-service/internal/config"
	"github.com/Bankydog/auth-service/internal/handler"
	"github.com/Bankydog/auth-service/internal/notifier"
	"github.com/Bankydog/auth-service/internal/registry"
	"github.com/Bankydog/auth-service/internal/repository"
	"github.com/Bankydog/auth-service/internal/server"
	"github.com/Bankydog/auth-service/internal/usecase"
	"github.com/Bankydog/auth-service/shared/auth"
	"github.com/Bankydog/auth-service/shared/clock"
	"github.com/Bankydog/auth-service/shared/mailer"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.NewAuthServiceConfig(&logger)
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)

	emailNotifier := notifier.NewEmailNotifier(mailer.NewMailer(&logger))

	codec, err := auth.NewTokenCodec(cfg.Token.Secret, cfg.Token.ExpiresIn, clock.System())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure token codec")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, emailNotifier, usecase.NewRandomCodeGenerator(), clock.System())
	userUsecase := usecase.NewUserUsecase(userRepo)

	authHandler := handler.NewAuthHandler(&logger, authUsecase, codec)
	userHandler := handler.NewUserHandler(&logger, userUsecase)

	router := server.NewRouter(&logger, authHandler, userHandler, codec)

	healthServer, err := server.ServeHealth(cfg.GRPCHealthAddr, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start grpc health server")
	}
	defer healthServer.GracefulStop()

	if cfg.Consul.Enabled {
		registrar, err := registry.Register(&logger, cfg.Consul.Addr, cfg.ServiceName, cfg.HTTPAddr, cfg.GRPCHealthAddr)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to register with consul")
		}
		defer registrar.Deregister()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}
}
