package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ranadipgithub/CodeUP/internal/services"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

type ChatInput struct {
	Messages    []services.ChatMessage `json:"messages" binding:"required,min=1"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	TestCases   string                 `json:"testCases"`
	StartCode   string                 `json:"startCode"`
}

// ChatWithTutor proxies a conversation to the AI tutor, grounding it in the
// current problem's statement.
func ChatWithTutor(c *gin.Context) {
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Messages are required"})
		return
	}

	reply, err := services.GenerateTutorReply(c.Request.Context(), input.Messages, services.ProblemContext{
		Title:       input.Title,
		Description: input.Description,
		TestCases:   input.TestCases,
		StartCode:   input.StartCode,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Tutor reply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}
