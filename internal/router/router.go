package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/avrorin/blog-platform/internal/config"
    "github.com/avrorin/blog-platform/internal/handler"
    "github.com/avrorin/blog-platform/internal/middleware"
)

// RegisterRoutes registers routes that carry no handler dependencies.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the identity endpoints. Register and login are public
// but rate limited; getuser sits behind the bearer token gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
    limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

    g := e.Group("/auth")
    g.POST("/register", a.Register, limiter)
    g.POST("/login", a.Login, limiter)
    g.GET("/getuser", a.GetUser, middleware.RequireAuth(a.Cfg.JWTSecret))
}

// RegisterBlog wires the blog endpoints. Reads are public and cached;
// createBlog is public by contract (the body's userId is trusted); update
// and delete require a bearer token, with the ownership comparison done in
// the handlers.
func RegisterBlog(e *echo.Echo, b *handler.BlogHandler, jwtSecret string, rdb *redis.Client) {
    cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
    gate := middleware.RequireAuth(jwtSecret)

    g := e.Group("/blog")
    g.GET("/getAll", b.GetAll, cache)
    g.GET("/getArticle", b.GetArticle, cache)
    g.POST("/createBlog", b.Create)
    g.PUT("/updateBlog", b.Update, gate)
    g.DELETE("/deleteBlog", b.Delete, gate)
}
