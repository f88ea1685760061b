package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avrorin/blog-platform/internal/config"
	"github.com/avrorin/blog-platform/internal/database"
	"github.com/avrorin/blog-platform/internal/handler"
	"github.com/avrorin/blog-platform/internal/queue"
	"github.com/avrorin/blog-platform/internal/repository"
	"github.com/avrorin/blog-platform/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// nil when Redis is unreachable; cache and rate limiting degrade to
	// pass-through in that case.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	blogs := repository.NewBlogRepo(db)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), rdb)
	router.RegisterBlog(e, handler.NewBlogHandler(blogs), cfg.JWTSecret, rdb)

	// Activity log consumer; runs its own reconnect loop for the lifetime
	// of the process.
	go func() {
		if err := queue.StartBlogActivityConsumer(); err != nil {
			log.Printf("blog-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
