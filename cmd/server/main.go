package main

import (
    "context"
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/cinebook/movie-ticket-booking/internal/config"
    "github.com/cinebook/movie-ticket-booking/internal/database"
    "github.com/cinebook/movie-ticket-booking/internal/handler"
    "github.com/cinebook/movie-ticket-booking/internal/middleware"
    "github.com/cinebook/movie-ticket-booking/internal/queue"
    "github.com/cinebook/movie-ticket-booking/internal/repository"
    "github.com/cinebook/movie-ticket-booking/internal/router"
    "github.com/cinebook/movie-ticket-booking/internal/scheduler"
    "github.com/cinebook/movie-ticket-booking/internal/service"
    "github.com/cinebook/movie-ticket-booking/internal/ticket"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(database.Options{
        User:         cfg.DBUser,
        Pass:         cfg.DBPass,
        Host:         cfg.DBHost,
        Port:         cfg.DBPort,
        Name:         cfg.DBName,
        MaxOpenConns: cfg.DBMaxOpenConns,
        MaxIdleConns: cfg.DBMaxIdleConns,
    })
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: without it, caching and rate limiting degrade
    // to pass-throughs.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; cache and rate limit disabled")
    }

    // Repositories.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    movies := repository.NewMovieRepo(db)
    theaters := repository.NewTheaterRepo(db)
    classes := repository.NewSeatClassRepo(db)
    shows := repository.NewShowRepo(db)
    seats := repository.NewSeatRepo(db)
    prices := repository.NewShowPriceRepo(db)
    holds := repository.NewSeatHoldRepo(db)
    bookings := repository.NewBookingRepo(db)

    // Services.
    provisioner := service.NewProvisioner(classes, seats, prices, shows, movies, theaters)
    bookingSvc := service.NewBookingService(holds, seats, prices, bookings, shows,
        time.Duration(cfg.HoldTTLMin)*time.Minute)

    // Handlers.
    authH := handler.NewAuthHandler(cfg, users, tokens)
    publicH := handler.NewPublicHandler(movies, theaters, shows, prices)
    bookingH := &handler.BookingHandler{
        Svc:      bookingSvc,
        Bookings: bookings,
        Seats:    seats,
        Holds:    holds,
        Classes:  classes,
        Shows:    shows,
        Movies:   movies,
        Theaters: theaters,
        Prices:   prices,
        Tickets:  ticket.NewPDFGenerator(cfg.TicketFontPath),
    }
    adminH := &handler.AdminHandler{
        Movies:      movies,
        Theaters:    theaters,
        Classes:     classes,
        Shows:       shows,
        Bookings:    bookings,
        Users:       users,
        Provisioner: provisioner,
    }

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, cache)
    router.RegisterBooking(e, bookingH, cfg.JWTSecret)
    router.RegisterAdmin(e, adminH, cfg.JWTSecret)

    // Keep tomorrow's schedule populated.
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    go scheduler.Run(ctx, provisioner, time.Hour)

    // Consume booking.confirmed events into logs/booking.log.
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
