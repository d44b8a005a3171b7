package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
)

func RegisterVideoRoutes(rg *gin.RouterGroup) {
	video := rg.Group("/video")
	video.Use(middleware.AuthMiddleware())

	video.GET("/create/:problemId", middleware.AdminMiddleware(), handlers.GenerateUploadSignature)
	video.POST("/save", middleware.AdminMiddleware(), handlers.SaveVideoMetadata)
	video.DELETE("/delete/:problemId", middleware.AdminMiddleware(), handlers.DeleteVideo)
	video.GET("/allVideoIds", middleware.AdminMiddleware(), handlers.GetAllVideoIDs)

	video.GET("/get/:problemId", handlers.GetVideoByProblem)
}
