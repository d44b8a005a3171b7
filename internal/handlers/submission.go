package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/internal/services"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
	"github.com/Ranadipgithub/CodeUP/pkg/utils"
)

type SubmitCodeInput struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// buildBatch turns test cases into one judge batch item per case.
func buildBatch(code string, languageID int, inputs, outputs []string) []services.BatchSubmission {
	items := make([]services.BatchSubmission, 0, len(inputs))
	for i := range inputs {
		items = append(items, services.BatchSubmission{
			SourceCode:     code,
			LanguageID:     languageID,
			Stdin:          inputs[i],
			ExpectedOutput: outputs[i],
		})
	}
	return items
}

// statusFromResult maps a failing judge verdict onto the submission status
// enum. Wrong Answer is distinguished by ID; every other terminal status maps
// through its description.
func statusFromResult(r services.SubmissionResult) models.SubmissionStatus {
	if r.Status.ID == services.StatusWrongAnswer {
		return models.SubStatusWA
	}
	desc := strings.ToLower(r.Status.Description)
	switch {
	case strings.HasPrefix(desc, "time limit"):
		return models.SubStatusTLE
	case strings.HasPrefix(desc, "compilation"):
		return models.SubStatusCE
	case strings.HasPrefix(desc, "runtime error"):
		return models.SubStatusRE
	default:
		return models.SubmissionStatus(desc)
	}
}

// foldVerdicts aggregates per-case judge results into the final submission
// fields. The loop deliberately does not stop at the first failure: a later
// passing case still increments the counters, and the stored status reflects
// the last failing case encountered. Runtime and memory accumulate over
// passing cases only.
func foldVerdicts(sub *models.Submission, results []services.SubmissionResult) {
	status := models.SubStatusAccepted
	passed := 0
	runtime := 0.0
	memory := 0
	errorMessage := ""

	for _, r := range results {
		if r.Status.ID == services.StatusAccepted {
			passed++
			if t, err := strconv.ParseFloat(r.Time, 64); err == nil {
				runtime += t
			}
			if r.Memory > memory {
				memory = r.Memory
			}
		} else {
			status = statusFromResult(r)
			errorMessage = r.Stderr
		}
	}

	sub.Status = status
	sub.TestCasesPassed = passed
	sub.Runtime = runtime
	sub.Memory = memory
	sub.ErrorMessage = errorMessage
}

func respondJudgeError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrJudgeTimeout) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Judge timed out. Please try again later."})
		return
	}
	logger.Error().Err(err).Msg("Judge dispatch failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

// SubmitCode grades a submission against the problem's hidden test cases and
// persists the result.
func SubmitCode(c *gin.Context) {
	userID := c.GetString("userId")
	problemID := c.Param("problemId")

	var input SubmitCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if userID == "" || problemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	var problem models.Problem
	if err := database.DB.Preload("HiddenTestCases").First(&problem, "id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	submission := models.Submission{
		ID:             utils.GenerateID(),
		UserID:         userID,
		ProblemID:      problemID,
		Code:           input.Code,
		Language:       strings.ToLower(input.Language),
		Status:         models.SubStatusPending,
		TestCasesTotal: len(problem.HiddenTestCases),
	}
	if err := database.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	inputs := make([]string, len(problem.HiddenTestCases))
	outputs := make([]string, len(problem.HiddenTestCases))
	for i, tc := range problem.HiddenTestCases {
		inputs[i] = tc.Input
		outputs[i] = tc.Output
	}

	languageID := services.GetLanguageID(input.Language)
	batch := buildBatch(input.Code, languageID, inputs, outputs)

	tokens, err := services.Judge.SubmitBatch(c.Request.Context(), batch)
	if err != nil {
		respondJudgeError(c, err)
		return
	}

	results, err := services.Judge.WaitForResults(c.Request.Context(), tokens)
	if err != nil {
		respondJudgeError(c, err)
		return
	}

	foldVerdicts(&submission, results)
	if err := database.DB.Save(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	// The solved set is appended on every submission, pass or fail; the
	// association append is idempotent so re-solving never duplicates.
	user := models.User{ID: userID}
	if err := database.DB.Model(&user).Association("SolvedProblems").Append(&models.Problem{ID: problemID}); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update solved set")
	}

	logger.Info().
		Str("submission_id", submission.ID).
		Str("status", string(submission.Status)).
		Int("passed", submission.TestCasesPassed).
		Int("total", submission.TestCasesTotal).
		Msg("Submission graded")

	c.JSON(http.StatusOK, gin.H{"submittedResult": submission})
}

// RunCode dispatches code against the problem's visible test cases and
// returns the raw judge results without persisting anything. The client
// compares stdout against the expected outputs it already has.
func RunCode(c *gin.Context) {
	userID := c.GetString("userId")
	problemID := c.Param("problemId")

	var input SubmitCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if userID == "" || problemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	var problem models.Problem
	if err := database.DB.Preload("VisibleTestCases").First(&problem, "id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	inputs := make([]string, len(problem.VisibleTestCases))
	outputs := make([]string, len(problem.VisibleTestCases))
	for i, tc := range problem.VisibleTestCases {
		inputs[i] = tc.Input
		outputs[i] = tc.Output
	}

	languageID := services.GetLanguageID(input.Language)
	batch := buildBatch(input.Code, languageID, inputs, outputs)

	tokens, err := services.Judge.SubmitBatch(c.Request.Context(), batch)
	if err != nil {
		respondJudgeError(c, err)
		return
	}

	results, err := services.Judge.WaitForResults(c.Request.Context(), tokens)
	if err != nil {
		respondJudgeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetSubmissionsByProblem returns the current user's submissions for one problem.
func GetSubmissionsByProblem(c *gin.Context) {
	userID := c.GetString("userId")
	problemID := c.Param("pid")

	var submissions []models.Submission
	err := database.DB.
		Where("user_id = ? AND problem_id = ?", userID, problemID).
		Order("created_at desc").
		Find(&submissions).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if len(submissions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No submissions found for this problem by the user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}
