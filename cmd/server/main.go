package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/config"
	"github.com/iliyamo/blog-api/internal/database"
	"github.com/iliyamo/blog-api/internal/handler"
	"github.com/iliyamo/blog-api/internal/middleware"
	"github.com/iliyamo/blog-api/internal/queue"
	"github.com/iliyamo/blog-api/internal/repository"
	"github.com/iliyamo/blog-api/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env file; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Create the users/articles tables if this is a fresh database.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	// Redis is optional: without it the cache and rate limiter are no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	cacheMW := middleware.NewRedisCache(cacheCfg, rdb)
	invalidator := middleware.NewCacheInvalidator(cacheCfg, rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	articles := repository.NewArticleRepo(db)

	e := echo.New()
	router.RegisterRoutes(e, cfg.FilesDir)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), limitMW)
	router.RegisterUsers(e, handler.NewUserHandler(cfg, users, articles, invalidator))
	router.RegisterArticles(e, handler.NewArticleHandler(users, articles), cfg.JWTSecret, cacheMW)

	// Background consumer for article.created events; reconnects forever.
	go queue.StartArticleConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
