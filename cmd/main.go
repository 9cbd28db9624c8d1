package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authgate/internal/auth"
	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/httpapi"
	"authgate/internal/mail"
	"authgate/internal/store"
	"authgate/internal/token"

	"github.com/gorilla/handlers"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Create a context for initialization.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from MongoDB", "err", err)
		}
	}()
	logger.Info("connected to MongoDB")

	userCol := database.UserCollection(client, cfg.MongoDB)
	if err := database.EnsureUserIndexes(ctx, userCol); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}

	userStore := store.NewMongoStore(userCol)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTExpire)
	mailer := mail.NewSMTPMailer(cfg.SMTPServer, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromName)
	svc := auth.NewService(userStore, issuer, mailer, logger, cfg.ResetURL)

	h := httpapi.NewHandler(svc, issuer, logger, cfg, func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})
	router := h.Routes()

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Cookie"}),
		handlers.AllowCredentials(),
	)

	// Wrap the router with CORS and logging middleware.
	loggedRouter := handlers.LoggingHandler(os.Stdout, cors(router))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Handler:      loggedRouter,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine.
	go func() {
		logger.Info("server running", "addr", addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signals for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("server exited gracefully")
}
