package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

// GetAllUsers lists every account (Admin only).
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account along with its submissions and editorial
// videos. The user's problems survive with their creator reference cleared;
// these deletes are sequential, not transactional across collections.
func DeleteUser(c *gin.Context) {
	userID := c.Param("userId")

	result := database.DB.Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Delete(&models.Submission{}, "user_id = ?", userID).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete user submissions")
	}
	if err := database.DB.Delete(&models.SolutionVideo{}, "user_id = ?", userID).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete user videos")
	}
	if err := database.DB.Model(&models.Problem{}).
		Where("creator_id = ?", userID).
		Update("creator_id", "").Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to clear problem creator")
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
