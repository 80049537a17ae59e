package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"paperboy/internal/auth"
	"paperboy/internal/services"
)

// UserHandler handles profile and quiz-answer endpoints
type UserHandler struct {
	userService     *services.UserService
	questionService *services.QuestionService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, questionService *services.QuestionService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		questionService: questionService,
	}
}

// GetProfile returns the current user's profile, answer stats, the
// accuracy leaderboard and the user's rank in it
// GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("Error loading profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error loading profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RecordAnswer checks a quiz-style answer against the question's
// correct option and, when a token is supplied, updates the user's
// attempted/correct counters.
// POST /api/answer
func (h *UserHandler) RecordAnswer(c *gin.Context) {
	var req struct {
		ID       uint   `json:"id" binding:"required"`
		Selected string `json:"selected" binding:"required"`
		Token    string `json:"token"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing answer fields"})
		return
	}

	question, err := h.questionService.GetQuestion(req.ID)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error recording answer"})
		return
	}

	correct := false
	if opt := question.FindOption(req.Selected); opt != nil {
		correct = opt.IsCorrect
	}

	if req.Token != "" {
		claims, err := auth.ValidateToken(req.Token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		if err := h.userService.RecordAnswer(claims.UserID, correct); err != nil {
			log.Printf("Error updating stats for user %d: %v", claims.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error recording answer"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"correct": correct,
		"link":    question.ArticleURL,
	})
}
