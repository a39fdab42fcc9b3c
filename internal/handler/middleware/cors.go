package middleware

import (
	"log/slog"
	"slices"

	"mesa-reserve/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	// Reservation lists revalidate with If-None-Match, so browsers must
	// be able to read the ETag we hand back.
	exposeHeaders := cfg.ExposeHeaders
	if !slices.Contains(exposeHeaders, "ETag") {
		exposeHeaders = append(slices.Clone(exposeHeaders), "ETag")
	}

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    exposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "AllowOrigins", cfg.AllowOrigins)
	return cors.New(corsCfg)
}
