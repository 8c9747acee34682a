package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthenticateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangeUsernameRequest struct {
	UserID      uint   `json:"userId"`
	NewUsername string `json:"newUsername" binding:"required"`
}

// store scopes statements to the lifetime of the request; the pool acquires
// and releases the underlying connection per statement.
func store(ctx *gin.Context) *gorm.DB {
	return db.DB.WithContext(ctx.Request.Context())
}

func publicUser(user models.User) types.UserResponse {
	return types.UserResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existingUser models.User

	err := store(ctx).Where("email = ?", body.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	newUser := models.User{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
	}

	if err := store(ctx).Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	// Re-read by email so the response carries the store-assigned id.
	var created models.User

	if err := store(ctx).Where("email = ?", body.Email).First(&created).Error; err != nil {
		log.Printf("Failed to fetch created user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	token, err := auth.GenerateJWT(created.ID, created.Username, created.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"jwt":      token,
			"userData": publicUser(created),
		},
	})
}

func Authenticate(ctx *gin.Context) {
	var body AuthenticateRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	// Same normalization as registration, so the stored email matches.
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existingUser models.User

	err := store(ctx).Where("email = ?", body.Email).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a wrong password, so callers cannot probe
			// which emails are registered.
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect email or password"})
		return
	}

	tasks := []models.Task{}

	if err := store(ctx).Where("user_id = ?", existingUser.ID).Find(&tasks).Error; err != nil {
		log.Printf("Failed to fetch tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	userData := publicUser(existingUser)

	token, err := auth.GenerateJWT(userData.UserID, userData.Username, userData.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User authenticated successfully",
		"user": gin.H{
			"jwt":      token,
			"userData": userData,
			"tasks":    tasks,
		},
	})
}

func ChangeUsername(ctx *gin.Context) {
	var body ChangeUsernameRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	// Updating zero rows is not an error; a missing user only surfaces on
	// the follow-up read.
	err := store(ctx).Model(&models.User{}).
		Where("user_id = ?", body.UserID).
		Update("username", body.NewUsername).Error

	if err != nil {
		log.Printf("Failed to update username: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	var user models.User

	if err := store(ctx).Where("user_id = ?", body.UserID).First(&user).Error; err != nil {
		log.Printf("Failed to fetch updated user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Username changed successfully",
		"newUsername": user.Username,
	})
}
