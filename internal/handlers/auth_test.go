package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranadipgithub/CodeUP/internal/config"
	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
)

func setupAuthTest(t *testing.T) {
	t.Helper()
	setupTestDB(t)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func TestRegisterAndLogin(t *testing.T) {
	setupAuthTest(t)

	c, w := testContext(t, http.MethodPost, gin.H{
		"firstName": "Ada",
		"emailId":   "ada@example.com",
		"password":  "Str0ngPass",
	}, nil, "")
	Register(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var reply struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.NotEmpty(t, reply.Token)
	assert.Equal(t, "user", reply.User.Role)

	// The stored password must be hashed.
	var user models.User
	require.NoError(t, database.DB.First(&user, "email = ?", "ada@example.com").Error)
	assert.NotEqual(t, "Str0ngPass", user.Password)

	c, w = testContext(t, http.MethodPost, gin.H{
		"emailId":  "ada@example.com",
		"password": "Str0ngPass",
	}, nil, "")
	Login(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, http.MethodPost, gin.H{
		"emailId":  "ada@example.com",
		"password": "WrongPass1",
	}, nil, "")
	Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_WeakPassword(t *testing.T) {
	setupAuthTest(t)

	c, w := testContext(t, http.MethodPost, gin.H{
		"firstName": "Ada",
		"emailId":   "ada@example.com",
		"password":  "weak",
	}, nil, "")
	Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	setupAuthTest(t)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		c, w := testContext(t, http.MethodPost, gin.H{
			"firstName": "Ada",
			"emailId":   "dup@example.com",
			"password":  "Str0ngPass",
		}, nil, "")
		Register(c)
		assert.Equal(t, want, w.Code, "attempt %d", i)
	}
}

func TestAdminRegister_CreatesAdminRole(t *testing.T) {
	setupAuthTest(t)

	c, w := testContext(t, http.MethodPost, gin.H{
		"firstName": "Root",
		"emailId":   "root@example.com",
		"password":  "Str0ngPass",
	}, nil, "")
	AdminRegister(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, database.DB.First(&user, "email = ?", "root@example.com").Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestDeleteProfile_RemovesSubmissions(t *testing.T) {
	setupAuthTest(t)
	seedUser(t, "user1", models.RoleUser)
	seedProblem(t, "prob1", 1)
	database.DB.Create(&models.Submission{
		ID: "sub1", UserID: "user1", ProblemID: "prob1",
		Code: "code", Language: "python", Status: models.SubStatusAccepted,
	})

	c, w := testContext(t, http.MethodDelete, nil, nil, "user1")
	DeleteProfile(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
	database.DB.Model(&models.Submission{}).Count(&count)
	assert.Zero(t, count)
}
