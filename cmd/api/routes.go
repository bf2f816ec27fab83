package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appkg "github.com/revisio/revisio-go/cmd/api/app"
	"github.com/revisio/revisio-go/cmd/api/assets"
	"github.com/revisio/revisio-go/cmd/api/auth"
	"github.com/revisio/revisio-go/cmd/api/events"
	"github.com/revisio/revisio-go/cmd/api/exports"
	"github.com/revisio/revisio-go/cmd/api/metrics"
	"github.com/revisio/revisio-go/cmd/api/settings"
)

func registerRoutes(a *appkg.App, st assets.Store, hub *events.Hub) {
	a.R.Use(metrics.Middleware())

	a.R.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	a.R.GET("/readyz", readyz(a))
	a.R.GET("/metrics", metrics.Handler())

	if a.Cfg.AuthMode == "local" {
		a.R.POST("/login", auth.Login(a))
	}

	a.R.GET("/ws", func(c *gin.Context) { events.Serve(hub, c.Writer, c.Request) })

	api := a.R.Group("/api")
	api.Use(auth.Middleware(a))
	api.GET("/me", auth.Me)

	api.GET("/assets", assets.List(a, st))
	api.POST("/assets", auth.RequireRole(auth.RoleInspector), assets.Create(a, st))
	api.GET("/assets/scan/:code", assets.Scan(a, st))
	api.GET("/assets/:id", assets.Get(a, st))
	api.PUT("/assets/:id", auth.RequireRole(auth.RoleInspector), assets.Update(a, st))
	api.DELETE("/assets/:id", auth.RequireRole(auth.RoleAdmin), assets.Delete(a, st))
	api.POST("/assets/:id/inspections", auth.RequireRole(auth.RoleInspector), assets.AddInspection(a, st))
	api.GET("/assets/:id/card", assets.Card(a, st))
	api.GET("/summary", assets.Summary(a, st))

	api.GET("/exports/csv", exports.CSV(a, st))
	api.GET("/exports/json", exports.JSON(a, st))
	api.POST("/imports/json", auth.RequireRole(auth.RoleAdmin), exports.Import(a, st))

	api.GET("/settings/operator", settings.GetOperator(a))
	api.PUT("/settings/operator", auth.RequireRole(auth.RoleAdmin), settings.PutOperator(a))
	api.GET("/settings/instrument", assets.LastInstrument(a, st))
}

// readyz verifies the backing stores are reachable.
func readyz(a *appkg.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if a.DB != nil {
			if err := a.DB.QueryRow(ctx, "select 1").Scan(new(int)); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
				return
			}
		}
		if a.Q != nil {
			if err := a.Q.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
