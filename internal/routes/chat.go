package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
)

func RegisterChatRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	ai.Use(middleware.AuthMiddleware())

	ai.POST("/chat", handlers.ChatWithTutor)
}
