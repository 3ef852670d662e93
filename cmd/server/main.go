package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/database"
	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/media"
	"github.com/iliyamo/rental-marketplace/internal/metrics"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/queue"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/router"
	queuepub "github.com/iliyamo/rental-marketplace/internal/service"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the response cache. Both degrade to
	// passthrough when it is unreachable, so a nil client is not fatal.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	// Avatar media lives in MinIO when an endpoint is configured; without it
	// the avatar endpoints report the store as unavailable.
	var avatars handler.AvatarMedia
	minioCfg := config.LoadMinIOConfig()
	if minioCfg.Enabled() {
		mc, err := storage.NewMinIOClient(minioCfg)
		if err != nil {
			log.Fatalf("minio: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := storage.EnsureBucket(ctx, mc, minioCfg.Bucket, minioCfg.Region); err != nil {
			cancel()
			log.Fatalf("minio bucket: %v", err)
		}
		cancel()
		avatars = media.NewAvatarStore(mc, minioCfg)
	}

	users := &repository.UserRepo{DB: db}
	listings := &repository.ListingRepo{DB: db}

	authH := handler.NewAuthHandler(cfg, users, avatars)
	listingH := handler.NewListingHandler(cfg, users, listings, queuepub.PublishListingActivity)

	go queue.StartListingConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(metrics.Middleware())
	metrics.Register(e, "/metrics")

	browse := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(rateCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterListings(e, listingH, cfg.JWTSecret, browse...)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
