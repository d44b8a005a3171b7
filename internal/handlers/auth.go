package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Ranadipgithub/CodeUP/internal/config"
	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/internal/models"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
	"github.com/Ranadipgithub/CodeUP/pkg/utils"
)

func validatePasswordStrength(password string) bool {
	var hasUpper, hasLower, hasNumber bool
	if len(password) < 8 {
		return false
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasUpper && hasLower && hasNumber
}

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=30"`
	LastName  string `json:"lastName"`
	Email     string `json:"emailId" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"emailId" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userReply(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"firstName": user.FirstName,
		"emailId":   user.Email,
		"role":      user.Role,
		"avatar":    user.Avatar,
	}
}

func registerWithRole(c *gin.Context, role models.Role) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validatePasswordStrength(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with upper, lower and numeric characters"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	user := models.User{
		ID:           utils.GenerateID(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Password:     string(hashedPassword),
		Role:         role,
		AuthProvider: models.ProviderLocal,
	}

	if result := database.DB.Create(&user); result.Error != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("User registered")

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    userReply(&user),
	})
}

func Register(c *gin.Context) {
	registerWithRole(c, models.RoleUser)
}

// AdminRegister creates an admin account; only existing admins reach it.
func AdminRegister(c *gin.Context) {
	registerWithRole(c, models.RoleAdmin)
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	var user models.User
	if result := database.DB.Where("email = ?", input.Email).First(&user); result.Error != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"token":   token,
		"user":    userReply(&user),
	})
}

// Logout blacklists the token's JTI until its natural expiry.
func Logout(c *gin.Context) {
	claimsValue, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	claims, ok := claimsValue.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := database.BlacklistToken(claims.ID, ttl); err != nil {
			logger.Error().Err(err).Msg("Failed to blacklist token")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
}

// Check confirms the token is valid and returns the current user.
func Check(c *gin.Context) {
	userID := c.GetString("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User is authenticated", "user": userReply(&user)})
}

// DeleteProfile removes the current user and their submissions.
func DeleteProfile(c *gin.Context) {
	userID := c.GetString("userId")

	if err := database.DB.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if err := database.DB.Delete(&models.Submission{}, "user_id = ?", userID).Error; err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete submissions")
	}

	c.JSON(http.StatusOK, gin.H{"message": "User profile deleted successfully"})
}

// --- OAuth ---

var googleOauthConfig *oauth2.Config

func InitOAuthConfig() {
	if config.AppConfig.GoogleClientID == "" {
		logger.Warn().Msg("Google OAuth keys missing")
		return
	}
	googleOauthConfig = &oauth2.Config{
		RedirectURL:  config.AppConfig.GoogleCallbackURL,
		ClientID:     config.AppConfig.GoogleClientID,
		ClientSecret: config.AppConfig.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

func GoogleLogin(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	url := googleOauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func GoogleCallback(c *gin.Context) {
	if googleOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	code := c.Query("code")
	token, err := googleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		logger.Error().Err(err).Msg("Google OAuth exchange failed")
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=google_failed")
		return
	}

	client := googleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get Google user info")
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=google_failed")
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=google_failed")
		return
	}

	var user models.User
	err = database.DB.Where("google_id = ?", userInfo.ID).First(&user).Error
	if err != nil {
		user = models.User{
			ID:           utils.GenerateID(),
			FirstName:    userInfo.GivenName,
			LastName:     userInfo.FamilyName,
			Email:        userInfo.Email,
			Avatar:       userInfo.Picture,
			Role:         models.RoleUser,
			AuthProvider: models.ProviderGoogle,
			GoogleID:     userInfo.ID,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			logger.Error().Err(err).Str("email", userInfo.Email).Msg("Failed to create federated user")
			c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=google_failed")
			return
		}
	}

	jwtToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=google_failed")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/auth-success?token="+jwtToken)
}
