package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mesto_backend/internal/api"
	"mesto_backend/internal/app/service"
	"mesto_backend/internal/common/security"
	"mesto_backend/internal/domain/repository"
	"mesto_backend/internal/platform/config"
	"mesto_backend/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Configuration loaded (env=%s, storage=%s).", cfg.Environment, cfg.StorageDriver)

	// 2. Initialize JWT
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExp)

	// 3. Initialize Storage & Repositories
	ctx := context.Background()
	var (
		userRepo repository.UserRepository
		cardRepo repository.CardRepository
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := database.OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Error connecting to PostgreSQL: %v", err)
		}
		defer db.Close()
		if err := database.MigratePostgres(ctx, db); err != nil {
			db.Close()
			log.Fatalf("Error preparing PostgreSQL schema: %v", err)
		}
		userRepo = repository.NewPgUserRepository(db)
		cardRepo = repository.NewPgCardRepository(db)
	default:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Error connecting to MongoDB: %v", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}()
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			log.Fatalf("Error preparing MongoDB indexes: %v", err)
		}
		userRepo = repository.NewMongoUserRepository(db)
		cardRepo = repository.NewMongoCardRepository(db)
	}

	// 4. Initialize Services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	cardService := service.NewCardService(cardRepo)

	// 5. Initialize Router & HTTP Server
	router := api.NewRouter(tokens, authService, userService, cardService, api.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serverErr:
		log.Printf("Could not listen on %s: %v", cfg.Port, err)
		return
	}

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
		return
	}
	log.Println("Server stopped gracefully.")
}
