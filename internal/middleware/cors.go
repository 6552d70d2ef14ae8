package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/temcen/nutrirec/internal/config"
)

func CORS(cfg *config.Config) gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins:  cfg.Security.CORS.AllowedOrigins,
		AllowMethods:  cfg.Security.CORS.AllowedMethods,
		AllowHeaders:  cfg.Security.CORS.AllowedHeaders,
		ExposeHeaders: []string{RequestIDHeader},
	}

	// gin-contrib/cors rejects "*" mixed into AllowOrigins
	for _, origin := range config.AllowOrigins {
		if origin == "*" {
			config.AllowAllOrigins = true
			config.AllowOrigins = nil
			break
		}
	}

	return cors.New(config)
}
