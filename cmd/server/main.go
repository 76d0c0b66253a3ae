package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/musafir-4778/parking-lot-reservation/internal/config"
	"github.com/musafir-4778/parking-lot-reservation/internal/database"
	"github.com/musafir-4778/parking-lot-reservation/internal/handler"
	"github.com/musafir-4778/parking-lot-reservation/internal/queue"
	"github.com/musafir-4778/parking-lot-reservation/internal/repository"
	"github.com/musafir-4778/parking-lot-reservation/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single pooled handle.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	lotRepo := repository.NewLotRepo(db)
	spotRepo := repository.NewSpotRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// Seed the bootstrap admin account when no admin exists yet.
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	seeded, err := userRepo.EnsureAdmin(seedCtx, cfg.AdminUser, cfg.AdminPass, cfg.BcryptCost)
	cancel()
	if err != nil {
		log.Fatalf("admin seed: %v", err)
	}
	if seeded {
		log.Printf("seeded admin account %q", cfg.AdminUser)
	}

	// Optional Redis client for response caching and rate limiting; nil
	// disables both middlewares.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(lotRepo, userRepo)
	parkingHandler := handler.NewParkingHandler(lotRepo, spotRepo, reservationRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterParking(e, parkingHandler, cfg.JWTSecret, rdb)

	// Background consumer appending vacate events to logs/parking.log.
	// It runs its own reconnect loop and never returns in normal operation.
	go func() {
		if err := queue.StartVacatedConsumer(); err != nil {
			log.Printf("vacated consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
