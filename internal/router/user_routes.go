package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/musafir-4778/parking-lot-reservation/internal/config"
	"github.com/musafir-4778/parking-lot-reservation/internal/handler"
	"github.com/musafir-4778/parking-lot-reservation/internal/middleware"
	"github.com/musafir-4778/parking-lot-reservation/internal/model"
)

// RegisterParking registers the browsing and reservation endpoints under
// /v1.  Browsing is shared by both roles and sits behind the Redis
// response cache and the token-bucket rate limiter; the occupy/vacate
// flow is user-only and never cached since every call mutates state.
// Passing a nil Redis client disables both middlewares.
func RegisterParking(e *echo.Echo, h *handler.ParkingHandler, jwtSecret string, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	browse := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleUser),
		middleware.NewTokenBucket(rlCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	browse.GET("/lots", h.BrowseLots)
	browse.GET("/lots/:id", h.BrowseLot)
	browse.GET("/lots/:id/spots", h.BrowseSpots)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser),
	)
	g.POST("/spots/:id/occupy", h.Occupy)
	g.POST("/reservations/:id/vacate", h.Vacate)
	g.GET("/my-reservations", h.MyReservations)
	g.GET("/my-reservations/active", h.MyActiveReservations)
}
