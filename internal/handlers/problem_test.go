package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/internal/services"
)

func validProblemInput() gin.H {
	return gin.H{
		"title":       "Add Two Numbers",
		"description": "Given two integers, print their sum.",
		"difficulty":  "Easy",
		"tags":        "Math",
		"visibleTestCases": []gin.H{
			{"input": "1 2", "output": "3", "explanation": "1+2=3"},
		},
		"hiddenTestCases": []gin.H{
			{"input": "5 7", "output": "12"},
		},
		"startCode": []gin.H{
			{"language": "python", "initialCode": "def solve():\n    pass"},
		},
		"referenceSolution": []gin.H{
			{"language": "python", "completeCode": "a, b = map(int, input().split())\nprint(a + b)"},
		},
	}
}

func TestCreateProblem_ValidReferenceSolution(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	installFakeJudge(t, &fakeJudge{results: []services.SubmissionResult{accepted("0.01", 100)}})

	c, w := testContext(t, http.MethodPost, validProblemInput(), nil, "admin1")
	CreateProblem(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var problem models.Problem
	err := database.DB.
		Preload("VisibleTestCases").Preload("HiddenTestCases").
		Preload("StartCode").Preload("ReferenceSolutions").
		First(&problem, "title = ?", "Add Two Numbers").Error
	require.NoError(t, err)
	assert.Equal(t, "admin1", problem.CreatorID)
	assert.Len(t, problem.VisibleTestCases, 1)
	assert.Len(t, problem.HiddenTestCases, 1)
	assert.Len(t, problem.ReferenceSolutions, 1)
}

func TestCreateProblem_RejectedReferenceSolution(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	installFakeJudge(t, &fakeJudge{results: []services.SubmissionResult{wrongAnswer()}})

	c, w := testContext(t, http.MethodPost, validProblemInput(), nil, "admin1")
	CreateProblem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.Problem{}).Count(&count)
	assert.Zero(t, count, "nothing may be persisted when validation fails")
}

func TestCreateProblem_MissingReferenceSolution(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	installFakeJudge(t, &fakeJudge{})

	input := validProblemInput()
	delete(input, "referenceSolution")
	c, w := testContext(t, http.MethodPost, input, nil, "admin1")
	CreateProblem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProblem_SkipsValidationWhenSolutionsOmitted(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	seedProblem(t, "prob1", 1)
	fake := &fakeJudge{results: []services.SubmissionResult{accepted("0.01", 100)}}
	installFakeJudge(t, fake)

	input := validProblemInput()
	delete(input, "referenceSolution")
	input["title"] = "Renamed Problem"

	c, w := testContext(t, http.MethodPut, input,
		gin.Params{{Key: "id", Value: "prob1"}}, "admin1")
	UpdateProblem(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, fake.batches, "omitting reference solutions must skip the judge")

	var problem models.Problem
	require.NoError(t, database.DB.First(&problem, "id = ?", "prob1").Error)
	assert.Equal(t, "Renamed Problem", problem.Title)
}

func TestUpdateProblem_ReplacesChildLists(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	seedProblem(t, "prob1", 3)
	installFakeJudge(t, &fakeJudge{results: []services.SubmissionResult{accepted("0.01", 100)}})

	c, w := testContext(t, http.MethodPut, validProblemInput(),
		gin.Params{{Key: "id", Value: "prob1"}}, "admin1")
	UpdateProblem(c)

	require.Equal(t, http.StatusOK, w.Code)

	var hidden []models.HiddenTestCase
	require.NoError(t, database.DB.Find(&hidden, "problem_id = ?", "prob1").Error)
	assert.Len(t, hidden, 1, "old hidden cases must be replaced, not appended")
}

func TestUpdateProblem_NotFound(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	installFakeJudge(t, &fakeJudge{})

	c, w := testContext(t, http.MethodPut, validProblemInput(),
		gin.Params{{Key: "id", Value: "missing"}}, "admin1")
	UpdateProblem(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProblem(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "admin1", models.RoleAdmin)
	seedProblem(t, "prob1", 2)

	c, w := testContext(t, http.MethodDelete, nil,
		gin.Params{{Key: "id", Value: "prob1"}}, "admin1")
	DeleteProblem(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.Problem{}).Count(&count)
	assert.Zero(t, count)
	database.DB.Model(&models.HiddenTestCase{}).Count(&count)
	assert.Zero(t, count, "owned lists are deleted with the problem")

	c, w = testContext(t, http.MethodDelete, nil,
		gin.Params{{Key: "id", Value: "prob1"}}, "admin1")
	DeleteProblem(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProblemByID_HidesHiddenCases(t *testing.T) {
	setupTestDB(t)
	seedProblem(t, "prob1", 2)

	c, w := testContext(t, http.MethodGet, nil,
		gin.Params{{Key: "id", Value: "prob1"}}, "")
	GetProblemByID(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hiddenTestCases")
}

func TestGetAllProblems_EmptyIs404(t *testing.T) {
	setupTestDB(t)

	c, w := testContext(t, http.MethodGet, nil, nil, "")
	GetAllProblems(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProblemsByPage(t *testing.T) {
	setupTestDB(t)
	for i := 0; i < 45; i++ {
		seedProblem(t, fmt.Sprintf("prob%02d", i), 1)
	}

	c, w := testContext(t, http.MethodGet, nil, nil, "")
	c.Request.URL.RawQuery = "page=2&limit=20"
	GetProblemsByPage(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp pageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Equal(t, int64(45), resp.TotalProblems)
	assert.Len(t, resp.Problems, 20)
}

func TestGetProblemsByPage_PastEndIs404(t *testing.T) {
	setupTestDB(t)
	seedProblem(t, "prob1", 1)

	c, w := testContext(t, http.MethodGet, nil, nil, "")
	c.Request.URL.RawQuery = "page=5&limit=20"
	GetProblemsByPage(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProblemCacheInvalidation(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	seedUser(t, "admin1", models.RoleAdmin)
	seedProblem(t, "prob1", 1)
	installFakeJudge(t, &fakeJudge{results: []services.SubmissionResult{accepted("0.01", 100)}})

	// Warm the caches.
	c, w := testContext(t, http.MethodGet, nil, gin.Params{{Key: "id", Value: "prob1"}}, "")
	GetProblemByID(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, http.MethodGet, nil, nil, "")
	c.Request.URL.RawQuery = "page=1&limit=20"
	GetProblemsByPage(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.True(t, mr.Exists("problem:prob1"))
	require.True(t, mr.Exists("problems_page_1_limit_20_search__difficulty__tags_"))

	// An unrelated key must survive the pattern invalidation.
	mr.Set("unrelated", "keep")

	c, w = testContext(t, http.MethodPut, validProblemInput(),
		gin.Params{{Key: "id", Value: "prob1"}}, "admin1")
	UpdateProblem(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.False(t, mr.Exists("problem:prob1"))
	assert.False(t, mr.Exists("problems_page_1_limit_20_search__difficulty__tags_"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestGetSolvedProblems(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "user1", models.RoleUser)
	seedProblem(t, "prob1", 1)
	seedProblem(t, "prob2", 1)

	user := models.User{ID: "user1"}
	require.NoError(t, database.DB.Model(&user).Association("SolvedProblems").Append(&models.Problem{ID: "prob1"}))

	c, w := testContext(t, http.MethodGet, nil, nil, "user1")
	GetSolvedProblems(c)

	require.Equal(t, http.StatusOK, w.Code)

	var solved []models.ProblemSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &solved))
	require.Len(t, solved, 1)
	assert.Equal(t, "prob1", solved[0].ID)
}
