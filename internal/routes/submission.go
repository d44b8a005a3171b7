package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
)

func RegisterSubmissionRoutes(rg *gin.RouterGroup) {
	submission := rg.Group("/submission")
	submission.Use(middleware.AuthMiddleware())

	submission.POST("/submit/:problemId", middleware.SubmitCooldown(), handlers.SubmitCode)
	submission.POST("/run/:problemId", middleware.SubmitCooldown(), handlers.RunCode)
}
