package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/internal/services"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
	"github.com/Ranadipgithub/CodeUP/pkg/utils"
)

const (
	allProblemsCacheKey = "all_problems"
	problemCacheTTL     = time.Hour
	// Filtered listings have a larger key space and tolerate staler data.
	pageCacheTTL = 5 * time.Minute
)

func problemCacheKey(id string) string {
	return "problem:" + id
}

func pageCacheKey(page, limit int, search, difficulty, tags string) string {
	return fmt.Sprintf("problems_page_%d_limit_%d_search_%s_difficulty_%s_tags_%s",
		page, limit, search, difficulty, tags)
}

// invalidateProblemCaches clears every key a problem write can make stale:
// the single-problem snapshot, the full listing, and all paginated/filtered
// listing snapshots.
func invalidateProblemCaches(problemID string) {
	if err := database.CacheDelete(allProblemsCacheKey, problemCacheKey(problemID)); err != nil {
		logger.Error().Err(err).Msg("Failed to clear problem caches")
	}
	if err := database.CacheInvalidate("problems_page_*"); err != nil {
		logger.Error().Err(err).Msg("Failed to clear pagination cache")
	}
}

type ProblemInput struct {
	Title             string                     `json:"title" binding:"required"`
	Description       string                     `json:"description" binding:"required"`
	Difficulty        models.Difficulty          `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Tags              string                     `json:"tags" binding:"required"`
	VisibleTestCases  []models.VisibleTestCase   `json:"visibleTestCases" binding:"required,min=1"`
	HiddenTestCases   []models.HiddenTestCase    `json:"hiddenTestCases" binding:"required,min=1"`
	StartCode         []models.StarterCode       `json:"startCode"`
	ReferenceSolution []models.ReferenceSolution `json:"referenceSolution"`
}

// validateReferenceSolutions runs every reference solution through the judge
// against every visible test case. Any non-Accepted verdict fails validation
// and nothing may be persisted.
func validateReferenceSolutions(ctx context.Context, solutions []models.ReferenceSolution, cases []models.VisibleTestCase) error {
	inputs := make([]string, len(cases))
	outputs := make([]string, len(cases))
	for i, tc := range cases {
		inputs[i] = tc.Input
		outputs[i] = tc.Output
	}

	for _, sol := range solutions {
		languageID := services.GetLanguageID(sol.Language)
		batch := buildBatch(sol.CompleteCode, languageID, inputs, outputs)

		tokens, err := services.Judge.SubmitBatch(ctx, batch)
		if err != nil {
			return err
		}
		results, err := services.Judge.WaitForResults(ctx, tokens)
		if err != nil {
			return err
		}

		for _, r := range results {
			if r.Status.ID != services.StatusAccepted {
				return fmt.Errorf("reference solution for %s failed on a visible test case (%s)",
					sol.Language, r.Status.Description)
			}
		}
	}
	return nil
}

// CreateProblem validates the reference solutions against the visible cases
// and stores the full problem document (Admin only).
func CreateProblem(c *gin.Context) {
	creatorID := c.GetString("userId")

	var input ProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.ReferenceSolution) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reference solution is required"})
		return
	}

	if err := validateReferenceSolutions(c.Request.Context(), input.ReferenceSolution, input.VisibleTestCases); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	problem := models.Problem{
		ID:                 utils.GenerateID(),
		Title:              input.Title,
		Description:        input.Description,
		Difficulty:         input.Difficulty,
		Tags:               input.Tags,
		VisibleTestCases:   input.VisibleTestCases,
		HiddenTestCases:    input.HiddenTestCases,
		StartCode:          input.StartCode,
		ReferenceSolutions: input.ReferenceSolution,
		CreatorID:          creatorID,
	}

	if err := database.DB.Create(&problem).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create problem"})
		return
	}

	invalidateProblemCaches(problem.ID)

	c.JSON(http.StatusCreated, gin.H{"message": "Problem created successfully", "problem": problem})
}

// UpdateProblem replaces the problem document (Admin only). Reference
// solutions are re-validated only when the payload carries them; an update
// that omits them skips the judge entirely.
func UpdateProblem(c *gin.Context) {
	problemID := c.Param("id")

	var problem models.Problem
	if err := database.DB.First(&problem, "id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	var input ProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.ReferenceSolution) > 0 {
		if err := validateReferenceSolutions(c.Request.Context(), input.ReferenceSolution, input.VisibleTestCases); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&problem).Updates(map[string]interface{}{
			"title":       input.Title,
			"description": input.Description,
			"difficulty":  input.Difficulty,
			"tags":        input.Tags,
		}).Error; err != nil {
			return err
		}

		// Child lists are replaced wholesale; the problem owns them.
		for _, child := range []interface{}{
			&models.VisibleTestCase{}, &models.HiddenTestCase{},
			&models.StarterCode{},
		} {
			if err := tx.Delete(child, "problem_id = ?", problemID).Error; err != nil {
				return err
			}
		}

		for i := range input.VisibleTestCases {
			input.VisibleTestCases[i].ID = 0
			input.VisibleTestCases[i].ProblemID = problemID
			if err := tx.Create(&input.VisibleTestCases[i]).Error; err != nil {
				return err
			}
		}
		for i := range input.HiddenTestCases {
			input.HiddenTestCases[i].ID = 0
			input.HiddenTestCases[i].ProblemID = problemID
			if err := tx.Create(&input.HiddenTestCases[i]).Error; err != nil {
				return err
			}
		}
		for i := range input.StartCode {
			input.StartCode[i].ID = 0
			input.StartCode[i].ProblemID = problemID
			if err := tx.Create(&input.StartCode[i]).Error; err != nil {
				return err
			}
		}

		if len(input.ReferenceSolution) > 0 {
			if err := tx.Delete(&models.ReferenceSolution{}, "problem_id = ?", problemID).Error; err != nil {
				return err
			}
			for i := range input.ReferenceSolution {
				input.ReferenceSolution[i].ID = 0
				input.ReferenceSolution[i].ProblemID = problemID
				if err := tx.Create(&input.ReferenceSolution[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update problem"})
		return
	}

	invalidateProblemCaches(problemID)

	database.DB.
		Preload("VisibleTestCases").Preload("HiddenTestCases").
		Preload("StartCode").Preload("ReferenceSolutions").
		First(&problem, "id = ?", problemID)
	c.JSON(http.StatusOK, gin.H{"message": "Problem updated successfully", "problem": problem})
}

// DeleteProblem removes a problem and its owned lists (Admin only).
func DeleteProblem(c *gin.Context) {
	problemID := c.Param("id")

	result := database.DB.Select(
		"VisibleTestCases", "HiddenTestCases", "StartCode", "ReferenceSolutions",
	).Delete(&models.Problem{ID: problemID})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete problem"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	invalidateProblemCaches(problemID)

	c.JSON(http.StatusOK, gin.H{"message": "Problem deleted successfully"})
}

// publicProblem is the user-facing projection: everything except hidden cases.
type publicProblem struct {
	ID               string                     `json:"id"`
	Title            string                     `json:"title"`
	Description      string                     `json:"description"`
	Difficulty       models.Difficulty          `json:"difficulty"`
	Tags             string                     `json:"tags"`
	VisibleTestCases []models.VisibleTestCase   `json:"visibleTestCases"`
	StartCode        []models.StarterCode       `json:"startCode"`
	ReferenceSols    []models.ReferenceSolution `json:"referenceSolution"`
}

// GetProblemByID serves the public projection, cache-first with a 1h TTL.
func GetProblemByID(c *gin.Context) {
	problemID := c.Param("id")
	key := problemCacheKey(problemID)

	var cached publicProblem
	if err := database.CacheGet(key, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"problem": cached})
		return
	}

	var problem models.Problem
	err := database.DB.
		Preload("VisibleTestCases").Preload("StartCode").Preload("ReferenceSolutions").
		First(&problem, "id = ?", problemID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	view := publicProblem{
		ID:               problem.ID,
		Title:            problem.Title,
		Description:      problem.Description,
		Difficulty:       problem.Difficulty,
		Tags:             problem.Tags,
		VisibleTestCases: problem.VisibleTestCases,
		StartCode:        problem.StartCode,
		ReferenceSols:    problem.ReferenceSolutions,
	}

	if err := database.CacheSet(key, view, problemCacheTTL); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Cache write failed")
	}

	c.JSON(http.StatusOK, gin.H{"problem": view})
}

// GetAllProblems serves the slim full listing, cache-first with a 1h TTL.
func GetAllProblems(c *gin.Context) {
	var cached []models.ProblemSummary
	if err := database.CacheGet(allProblemsCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"problems": cached})
		return
	}

	var problems []models.ProblemSummary
	if err := database.DB.Model(&models.Problem{}).Find(&problems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if len(problems) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No problems found"})
		return
	}

	if err := database.CacheSet(allProblemsCacheKey, problems, problemCacheTTL); err != nil {
		logger.Error().Err(err).Msg("Cache write failed")
	}

	c.JSON(http.StatusOK, gin.H{"problems": problems})
}

type pageResponse struct {
	Problems      []models.ProblemSummary `json:"problems"`
	TotalPages    int                     `json:"totalPages"`
	CurrentPage   int                     `json:"currentPage"`
	TotalProblems int64                   `json:"totalProblems"`
}

// GetProblemsByPage serves paginated, optionally filtered listings. The cache
// key includes every query dimension so distinct queries never collide.
func GetProblemsByPage(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	search := c.Query("search")
	difficulty := c.Query("difficulty")
	tags := c.Query("tags")

	key := pageCacheKey(page, limit, search, difficulty, tags)

	var cached pageResponse
	if err := database.CacheGet(key, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := database.DB.Model(&models.Problem{})
	if search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if tags != "" {
		query = query.Where("tags = ?", tags)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	var problems []models.ProblemSummary
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&problems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if len(problems) == 0 {
		if total > 0 && page > 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No problems found on this page"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "No problems found"})
		return
	}

	response := pageResponse{
		Problems:      problems,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:   page,
		TotalProblems: total,
	}

	if err := database.CacheSet(key, response, pageCacheTTL); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Cache write failed")
	}

	c.JSON(http.StatusOK, response)
}

// GetProblemAllInfo returns the complete document including hidden test
// cases, uncached (Admin only).
func GetProblemAllInfo(c *gin.Context) {
	problemID := c.Param("id")

	var problem models.Problem
	err := database.DB.
		Preload("VisibleTestCases").Preload("HiddenTestCases").
		Preload("StartCode").Preload("ReferenceSolutions").
		First(&problem, "id = ?", problemID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"problem": problem})
}

// GetSolvedProblems returns the current user's solved set.
func GetSolvedProblems(c *gin.Context) {
	userID := c.GetString("userId")

	var user models.User
	if err := database.DB.Preload("SolvedProblems").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	solved := make([]models.ProblemSummary, 0, len(user.SolvedProblems))
	for _, p := range user.SolvedProblems {
		solved = append(solved, models.ProblemSummary{
			ID:         p.ID,
			Title:      p.Title,
			Difficulty: p.Difficulty,
			Tags:       p.Tags,
		})
	}

	c.JSON(http.StatusOK, solved)
}
