package routes

import (
	"net/http"
	"time"

	"canal-denuncies/auth"
	"canal-denuncies/controllers"
	middlewares "canal-denuncies/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AllowedOrigins []string
	SecureCookies  bool
}

func SetupRoutes(r *gin.Engine, m *auth.Manager, opts Options) {
	r.Use(middlewares.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", controllers.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middlewares.ClientID(opts.SecureCookies))
	SetupPublicRoutes(api)
	SetupAuthRoutes(api, m)
}
