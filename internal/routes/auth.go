package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
)

func RegisterAuthRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.Use(middleware.AuthRateLimit())

	user.POST("/register", handlers.Register)
	user.POST("/login", handlers.Login)
	user.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
	user.GET("/check", middleware.AuthMiddleware(), handlers.Check)
	user.DELETE("/deleteProfile", middleware.AuthMiddleware(), handlers.DeleteProfile)

	user.POST("/admin/register", middleware.AuthMiddleware(), middleware.AdminMiddleware(), handlers.AdminRegister)

	// OAuth
	oauth := rg.Group("/auth")
	oauth.GET("/google", handlers.GoogleLogin)
	oauth.GET("/google/callback", handlers.GoogleCallback)
}
