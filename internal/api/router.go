package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"factory-resource-backend/config"
	"factory-resource-backend/internal/changelog"
	"factory-resource-backend/internal/mw"
	"factory-resource-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, log *changelog.Log, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, log)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Read caching covers the hot lookups: calendar resolution and the
	// resource list endpoints. Mutations bypass it.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/factories", handler.CreateFactory)
		api.GET("/factories", caching, handler.ListFactories)
		api.GET("/factories/:id", handler.GetFactory)
		api.PUT("/factories/:id", handler.UpdateFactory)
		api.DELETE("/factories/:id", handler.DeleteFactory)

		api.POST("/lines", handler.CreateLine)
		api.GET("/lines", caching, handler.ListLines)
		api.GET("/lines/:id", handler.GetLine)
		api.PUT("/lines/:id", handler.UpdateLine)
		api.DELETE("/lines/:id", handler.DeleteLine)

		api.POST("/stations", handler.CreateStation)
		api.GET("/stations", caching, handler.ListStations)
		api.GET("/stations/:id", handler.GetStation)
		api.PUT("/stations/:id", handler.UpdateStation)
		api.DELETE("/stations/:id", handler.DeleteStation)
		api.POST("/stations/bind", handler.BindStations)
		api.POST("/stations/:id/unbind", handler.UnbindStation)

		api.POST("/devices", handler.CreateDevice)
		api.GET("/devices", caching, handler.ListDevices)
		api.GET("/devices/:id", handler.GetDevice)
		api.PUT("/devices/:id", handler.UpdateDevice)
		api.DELETE("/devices/:id", handler.DeleteDevice)
		api.POST("/devices/bind", handler.BindDevices)
		api.POST("/devices/:id/unbind", handler.UnbindDevice)
		api.GET("/devices/:id/maintenance", handler.ListDeviceMaintenance)

		api.POST("/teams", handler.CreateTeam)
		api.GET("/teams", caching, handler.ListTeams)
		api.GET("/teams/:id", handler.GetTeam)
		api.PUT("/teams/:id", handler.UpdateTeam)
		api.DELETE("/teams/:id", handler.DeleteTeam)
		api.POST("/teams/bind", handler.BindTeams)
		api.POST("/teams/:id/unbind", handler.UnbindTeam)

		api.POST("/staff", handler.CreateStaff)
		api.GET("/staff", caching, handler.ListStaff)
		api.GET("/staff/:id", handler.GetStaff)
		api.PUT("/staff/:id", handler.UpdateStaff)
		api.DELETE("/staff/:id", handler.DeleteStaff)

		api.POST("/calendar", handler.SetCalendarRange)
		api.GET("/calendar", caching, handler.GetCalendarRange)
		api.GET("/calendar/check", caching, handler.CheckWorkDay)

		api.GET("/changelog", handler.GetChangeLog)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
