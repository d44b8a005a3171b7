package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/internal/services"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
	"github.com/Ranadipgithub/CodeUP/pkg/utils"
)

// GenerateUploadSignature hands the client a signed Cloudinary upload
// request scoped to one problem. The actual upload happens browser-side.
func GenerateUploadSignature(c *gin.Context) {
	userID := c.GetString("userId")
	problemID := c.Param("problemId")

	var problem models.Problem
	if err := database.DB.Select("id").First(&problem, "id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	publicID := fmt.Sprintf("leetcode-solutions/%s/%s_%d", problemID, userID, time.Now().Unix())
	signature := services.SignUpload(publicID)

	c.JSON(http.StatusOK, signature)
}

type SaveVideoInput struct {
	ProblemID          string  `json:"problemId" binding:"required"`
	CloudinaryPublicID string  `json:"cloudinaryPublicId" binding:"required"`
	SecureURL          string  `json:"secureUrl" binding:"required"`
	Duration           float64 `json:"duration"`
}

// SaveVideoMetadata records an uploaded editorial video after verifying the
// asset actually exists on Cloudinary.
func SaveVideoMetadata(c *gin.Context) {
	userID := c.GetString("userId")

	var input SaveVideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	exists, err := services.VideoExists(c.Request.Context(), input.CloudinaryPublicID)
	if err != nil {
		logger.Error().Err(err).Str("public_id", input.CloudinaryPublicID).Msg("Cloudinary resource check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found on Cloudinary"})
		return
	}

	var existing models.SolutionVideo
	if err := database.DB.First(&existing, "problem_id = ?", input.ProblemID).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A solution video already exists for this problem"})
		return
	}

	video := models.SolutionVideo{
		ID:                 utils.GenerateID(),
		ProblemID:          input.ProblemID,
		UserID:             userID,
		CloudinaryPublicID: input.CloudinaryPublicID,
		SecureURL:          input.SecureURL,
		ThumbnailURL:       services.VideoThumbnailURL(input.CloudinaryPublicID),
		Duration:           input.Duration,
	}
	if err := database.DB.Create(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Video solution saved successfully",
		"videoSolution": gin.H{
			"id":           video.ID,
			"thumbnailUrl": video.ThumbnailURL,
			"secureUrl":    video.SecureURL,
			"duration":     video.Duration,
			"uploadedAt":   video.CreatedAt,
		},
	})
}

// DeleteVideo removes the editorial video for a problem, both the Cloudinary
// asset and the metadata row.
func DeleteVideo(c *gin.Context) {
	problemID := c.Param("problemId")

	var video models.SolutionVideo
	if err := database.DB.First(&video, "problem_id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	if err := services.DestroyVideo(c.Request.Context(), video.CloudinaryPublicID); err != nil {
		logger.Error().Err(err).Str("public_id", video.CloudinaryPublicID).Msg("Cloudinary destroy failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video from Cloudinary"})
		return
	}

	if err := database.DB.Delete(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

// GetVideoByProblem returns the editorial video metadata for one problem.
func GetVideoByProblem(c *gin.Context) {
	problemID := c.Param("problemId")

	var video models.SolutionVideo
	if err := database.DB.First(&video, "problem_id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// GetAllVideoIDs lists the problem IDs that have an editorial video, so the
// admin UI can mark them.
func GetAllVideoIDs(c *gin.Context) {
	var problemIDs []string
	if err := database.DB.Model(&models.SolutionVideo{}).Pluck("problem_id", &problemIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"problemIds": problemIDs})
}
