package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paperboy/internal/services"
)

// QuestionHandler handles the public question endpoints
type QuestionHandler struct {
	questionService *services.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// GetQuestions lists questions for a category tab
// GET /api/questions?category=
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	category := c.DefaultQuery("category", "all")

	questions, err := h.questionService.ListQuestions(category)
	if err != nil {
		log.Printf("Error fetching questions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching questions"})
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestionByID returns one question with options and price history
// GET /api/question/:id
func (h *QuestionHandler) GetQuestionByID(c *gin.Context) {
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	question, err := h.questionService.GetQuestion(id)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
			return
		}
		log.Printf("Error fetching question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching question"})
		return
	}

	c.JSON(http.StatusOK, question)
}

// GetPriceHistory returns the question's price history shaped for the
// frontend chart
// GET /api/question/:id/history
func (h *QuestionHandler) GetPriceHistory(c *gin.Context) {
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	chart, err := h.questionService.PriceHistoryChart(id)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
			return
		}
		log.Printf("Error fetching price history for %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch price history"})
		return
	}

	c.JSON(http.StatusOK, chart)
}

// AddTestQuestion inserts a fixed seed question once
// GET /api/add
func (h *QuestionHandler) AddTestQuestion(c *gin.Context) {
	created, err := h.questionService.SeedQuestion()
	if err != nil {
		log.Printf("Error adding manual question: %v", err)
		c.String(http.StatusInternalServerError, "Error adding question")
		return
	}

	if !created {
		c.String(http.StatusOK, "Test question already exists.")
		return
	}
	c.String(http.StatusOK, "Manually added 'Pro Football' test question.")
}

func parseQuestionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return 0, false
	}
	return uint(id), true
}
