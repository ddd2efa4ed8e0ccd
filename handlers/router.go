package handlers

import (
	_ "embed"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sqlchat/docs" // Swagger docs
	"sqlchat/logger"
)

//go:embed static/index.html
var indexHTML []byte

// IndexHandler serves the chat page.
func (h *Handlers) IndexHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// NewRouter wires every route. An empty origin list or "*" allows all origins.
func NewRouter(h *Handlers, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Gin(logger.Component("http")))
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/", h.IndexHandler)
	r.GET("/health", h.HealthHandler)

	api := r.Group("/api")
	api.POST("/sessions", h.CreateSessionHandler)
	api.GET("/sessions/:id/messages", h.ListMessagesHandler)
	api.POST("/sessions/:id/messages", h.SendMessageHandler)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
