package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
)

func RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())

	admin.GET("/users", handlers.GetAllUsers)
	admin.DELETE("/delete/:userId", handlers.DeleteUser)
}
