package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/internal/services"
)

var testDBCounter int64

// setupTestDB gives each test its own in-memory SQLite database so state
// never leaks between tests.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	database.DB = db
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Problem{},
		&models.VisibleTestCase{},
		&models.HiddenTestCase{},
		&models.StarterCode{},
		&models.ReferenceSolution{},
		&models.Submission{},
		&models.SolutionVideo{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	database.Redis = nil
	gin.SetMode(gin.TestMode)
}

// setupTestRedis backs the shared client with a miniredis instance.
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	database.Redis = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		database.Redis = nil
	})
	return mr
}

// fakeJudge is a canned services.Client. It records every submitted batch and
// returns the configured results or error.
type fakeJudge struct {
	results []services.SubmissionResult
	err     error
	batches [][]services.BatchSubmission
}

func (f *fakeJudge) SubmitBatch(_ context.Context, items []services.BatchSubmission) ([]string, error) {
	f.batches = append(f.batches, items)
	if f.err != nil {
		return nil, f.err
	}
	tokens := make([]string, len(items))
	for i := range items {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}
	return tokens, nil
}

func (f *fakeJudge) WaitForResults(_ context.Context, _ []string) ([]services.SubmissionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func installFakeJudge(t *testing.T, f *fakeJudge) {
	t.Helper()
	prev := services.Judge
	services.Judge = f
	t.Cleanup(func() {
		services.Judge = prev
	})
}

func accepted(timeSec string, memory int) services.SubmissionResult {
	return services.SubmissionResult{
		Status: services.SubmissionStatus{ID: services.StatusAccepted, Description: "Accepted"},
		Time:   timeSec,
		Memory: memory,
	}
}

func wrongAnswer() services.SubmissionResult {
	return services.SubmissionResult{
		Status: services.SubmissionStatus{ID: services.StatusWrongAnswer, Description: "Wrong Answer"},
	}
}

// testContext builds a gin context with a JSON body, route params and an
// authenticated user, mirroring what the middleware chain would set.
func testContext(t *testing.T, method string, body interface{}, params gin.Params, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, "/test", &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	if userID != "" {
		c.Set("userId", userID)
	}
	return c, w
}

func seedUser(t *testing.T, id string, role models.Role) {
	t.Helper()
	user := models.User{
		ID:           id,
		FirstName:    "Test",
		Email:        id + "@example.com",
		Role:         role,
		AuthProvider: models.ProviderLocal,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func seedProblem(t *testing.T, id string, hidden int) {
	t.Helper()
	problem := models.Problem{
		ID:          id,
		Title:       "Two Sum " + id,
		Description: "Find two numbers that add up to a target.",
		Difficulty:  models.DifficultyEasy,
		Tags:        "Array",
		VisibleTestCases: []models.VisibleTestCase{
			{Input: "1 2", Output: "3", Explanation: "1+2=3"},
		},
	}
	for i := 0; i < hidden; i++ {
		problem.HiddenTestCases = append(problem.HiddenTestCases, models.HiddenTestCase{
			Input:  fmt.Sprintf("%d %d", i, i+1),
			Output: fmt.Sprintf("%d", 2*i+1),
		})
	}
	if err := database.DB.Create(&problem).Error; err != nil {
		t.Fatalf("failed to seed problem: %v", err)
	}
}
