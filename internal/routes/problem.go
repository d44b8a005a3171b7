package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/handlers"
	"github.com/Ranadipgithub/CodeUP/internal/middleware"
)

func RegisterProblemRoutes(rg *gin.RouterGroup) {
	problem := rg.Group("/problem")
	problem.Use(middleware.AuthMiddleware())

	// Admin-only problem management
	problem.POST("/create", middleware.AdminMiddleware(), handlers.CreateProblem)
	problem.PUT("/update/:id", middleware.AdminMiddleware(), handlers.UpdateProblem)
	problem.DELETE("/delete/:id", middleware.AdminMiddleware(), handlers.DeleteProblem)
	problem.GET("/problemById/allInfo/:id", middleware.AdminMiddleware(), handlers.GetProblemAllInfo)

	// Catalog reads
	problem.GET("/problemById/:id", handlers.GetProblemByID)
	problem.GET("/getAllProblem", handlers.GetAllProblems)
	problem.GET("/getProblemsByPage", handlers.GetProblemsByPage)

	// Per-user views
	problem.GET("/problemSolvedByUser", handlers.GetSolvedProblems)
	problem.GET("/submittedProblems/:pid", handlers.GetSubmissionsByProblem)
}
