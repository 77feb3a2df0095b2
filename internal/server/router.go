package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the chat API routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	api.POST("/chat", h.Chat)

	return router
}
