package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/coolie-booking/internal/config"     // env config loader
	"github.com/iliyamo/coolie-booking/internal/database"   // MySQL connection
	"github.com/iliyamo/coolie-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/coolie-booking/internal/middleware" // rate limiting / caching
	"github.com/iliyamo/coolie-booking/internal/pnr"        // PNR lookup source
	"github.com/iliyamo/coolie-booking/internal/queue"      // booking.completed consumer
	"github.com/iliyamo/coolie-booking/internal/repository" // DB repositories
	"github.com/iliyamo/coolie-booking/internal/router"     // route registration
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the station-list response cache.
	// A nil client disables both and the API keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	passengers := repository.NewPassengerRepo(db)
	coolies := repository.NewCoolieRepo(db)
	bookings := repository.NewBookingRepo(db)
	stations := repository.NewStationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens, passengers, coolies, pnr.SyntheticSource{})
	bookingHandler := handler.NewBookingHandler(users, passengers, coolies, bookings, stations)
	passengerHandler := handler.NewPassengerHandler(passengers, bookings)
	coolieHandler := handler.NewCoolieHandler(coolies, bookings)
	adminHandler := handler.NewAdminHandler(coolies, stations)
	publicHandler := handler.NewPublicHandler(stations)

	e := echo.New()
	// The browser clients are served from arbitrary origins.
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret)
	router.RegisterPassenger(e, passengerHandler, cfg.JWTSecret)
	router.RegisterCoolie(e, coolieHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Settlement trail: consume booking.completed into logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
