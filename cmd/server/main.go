package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	roomTypes := repository.NewRoomTypeRepo(db)
	rooms := repository.NewRoomRepo(db)
	rates := repository.NewRateRepo(db)
	inventory := repository.NewInventoryRepo(db)
	reservations := repository.NewReservationRepo(db)
	history := repository.NewStatusHistoryRepo(db)

	// Services.
	tx := database.NewTxRunner(db)
	reservationSvc := service.NewReservationService(tx, hotels, roomTypes, rooms,
		rates, inventory, reservations, history)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(hotels, roomTypes, rates, inventory)
	staffH := handler.NewStaffHandler(tx, hotels, roomTypes, rooms, rates, inventory)
	staffResH := handler.NewStaffReservationHandler(reservationSvc, reservations, history, hotels, roomTypes)
	guestH := handler.NewGuestReservationHandler(reservationSvc, reservations, history, hotels, roomTypes)

	e := echo.New()

	// Redis-backed rate limiting and response caching. Both degrade to
	// no-ops when Redis is unreachable at startup.
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			e.Use(middleware.NewRedisCache(cacheCfg, rdb))
		}
	} else {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH)
	router.RegisterStaff(e, staffH, cfg.JWTSecret)
	router.RegisterStaffReservations(e, staffResH, cfg.JWTSecret)
	router.RegisterGuest(e, guestH, cfg.JWTSecret)

	// Background consumer that mirrors reservation events to a local log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
