package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-discovery/internal/config"
	"github.com/iliyamo/event-discovery/internal/database"
	"github.com/iliyamo/event-discovery/internal/handler"
	appmw "github.com/iliyamo/event-discovery/internal/middleware"
	"github.com/iliyamo/event-discovery/internal/queue"
	"github.com/iliyamo/event-discovery/internal/repository"
	"github.com/iliyamo/event-discovery/internal/router"
	"github.com/iliyamo/event-discovery/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Redis is optional: cache and rate limiting degrade to no-ops
	// when it is unreachable.
	rdb := config.NewRedisClient()

	events := repository.NewEventRepo(db)
	ratings := repository.NewRatingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	ratingSvc := service.NewRatingService(ratings)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(events, ratings)
	organizerH := handler.NewOrganizerHandler(events)
	ratingH := handler.NewRatingHandler(ratingSvc, users)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH,
		appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		appmw.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	router.RegisterMember(e, ratingH, cfg.JWTSecret)
	router.RegisterOrganizer(e, organizerH, cfg.JWTSecret)

	// Notification consumer runs for the life of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
