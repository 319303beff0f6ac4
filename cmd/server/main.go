package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/NizarI20/ServiceHub-sub000/internal/booking"
	"github.com/NizarI20/ServiceHub-sub000/internal/config"
	"github.com/NizarI20/ServiceHub-sub000/internal/database"
	"github.com/NizarI20/ServiceHub-sub000/internal/handler"
	"github.com/NizarI20/ServiceHub-sub000/internal/mailer"
	"github.com/NizarI20/ServiceHub-sub000/internal/middleware"
	"github.com/NizarI20/ServiceHub-sub000/internal/queue"
	"github.com/NizarI20/ServiceHub-sub000/internal/repository"
	"github.com/NizarI20/ServiceHub-sub000/internal/router"
	"github.com/NizarI20/ServiceHub-sub000/internal/scheduler"
	queue_publisher "github.com/NizarI20/ServiceHub-sub000/internal/service"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the shared pool.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	serviceRepo := repository.NewServiceRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	// The lifecycle gets its collaborators injected; email goes through
	// the broker and is delivered by the background consumer below.
	lifecycle := booking.NewLifecycle(serviceRepo, userRepo, reservationRepo, notificationRepo, queue_publisher.NewEmailQueue())

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicH := &handler.PublicHandler{ServiceRepo: serviceRepo, CategoryRepo: categoryRepo}
	serviceH := handler.NewServiceHandler(serviceRepo, categoryRepo)
	reservationH := handler.NewReservationHandler(lifecycle)
	notificationH := handler.NewNotificationHandler(notificationRepo)

	e := echo.New()

	// Distributed rate limiting; degrades to a no-op when Redis is down.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterMarketplace(e, serviceH, reservationH, notificationH, cfg.JWTSecret)

	// Background email delivery off the broker.
	go func() {
		if err := queue.StartEmailConsumer(mailer.NewFromEnv()); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	// Daily reminder sweep for next-day confirmed reservations.
	go scheduler.New(lifecycle, 24*time.Hour).Start(context.Background())

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
