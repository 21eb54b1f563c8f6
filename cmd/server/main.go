package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/ruokapaikka/api/internal/cache"
	"github.com/ruokapaikka/api/internal/cart"
	"github.com/ruokapaikka/api/internal/config"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/ruokapaikka/api/internal/handler"
	"github.com/ruokapaikka/api/internal/router"
	"github.com/ruokapaikka/api/internal/service"
	"github.com/ruokapaikka/api/internal/ws"
)

const menuCacheTTL = 5 * time.Minute

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("unable to ping database: %v", err)
	}
	log.Println("connected to database")

	queries := database.New(pool)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARN: redis unreachable, menu cache disabled: %v", err)
			redisClient = nil
		} else {
			log.Println("connected to redis")
		}
	}
	menuCache := cache.NewMenuCache(redisClient, menuCacheTTL)

	hub := ws.NewHub()
	go hub.Run()

	carts := cart.NewStore(cart.DefaultTTL)
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.CheckoutStore {
		return database.New(db)
	})

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(queries, cfg.JWTSecret),
		Public:     handler.NewPublicHandler(queries, menuCache),
		Cart:       handler.NewCartHandler(carts, queries, orderService, hub),
		Orders:     handler.NewOrderHandler(queries, hub),
		Menu:       handler.NewMenuHandler(queries, menuCache),
		Categories: handler.NewCategoryHandler(queries, menuCache),
		Deals:      handler.NewDealHandler(queries),
		Reviews:    handler.NewReviewHandler(queries),
		Settings:   handler.NewSettingsHandler(queries),
		Hours: handler.NewHoursHandler(queries, pool, func(db database.DBTX) handler.HoursStore {
			return database.New(db)
		}),
	}

	r := router.New(handlers, hub, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("server listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
