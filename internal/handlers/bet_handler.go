package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"paperboy/internal/auth"
	"paperboy/internal/services"
)

// BetHandler handles wager placement
type BetHandler struct {
	betService *services.BetService
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(betService *services.BetService) *BetHandler {
	return &BetHandler{betService: betService}
}

// PlaceBet validates the wager, verifies the caller's token from the
// request body, and delegates the bet sequence to the service
// POST /api/bet
func (h *BetHandler) PlaceBet(c *gin.Context) {
	var req struct {
		QuestionID         uint   `json:"questionId"`
		SelectedOptionName string `json:"selectedOptionName"`
		BetAmount          int    `json:"betAmount"`
		Token              string `json:"token"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required bet information or token"})
		return
	}
	if req.QuestionID == 0 || req.SelectedOptionName == "" || req.BetAmount == 0 || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required bet information or token"})
		return
	}
	if req.BetAmount < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid bet amount"})
		return
	}

	claims, err := auth.ValidateToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}

	bet, newBalance, err := h.betService.PlaceBet(claims.UserID, req.QuestionID, req.SelectedOptionName, req.BetAmount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, services.ErrQuestionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		case errors.Is(err, services.ErrMarketResolved):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Market has already resolved"})
		case errors.Is(err, services.ErrOptionNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Selected option not found"})
		case errors.Is(err, services.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": fmt.Sprintf("Insufficient points. You have %d points.", newBalance),
			})
		default:
			log.Printf("Error placing bet: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to place bet"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Bet placed successfully",
		"bet":        bet,
		"newBalance": newBalance,
	})
}
