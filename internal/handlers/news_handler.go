package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"paperboy/internal/newsapi"
	"paperboy/internal/services"
)

// NewsHandler proxies the news search endpoints and triggers the
// poll generation pipeline
type NewsHandler struct {
	news      *newsapi.Client
	generator *services.PollGeneratorService
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(news *newsapi.Client, generator *services.PollGeneratorService) *NewsHandler {
	return &NewsHandler{
		news:      news,
		generator: generator,
	}
}

// searchResult is the reshaped article returned to the frontend
type searchResult struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// GenerateNews runs the poll generation pipeline to completion
// GET /api/generate-news
func (h *NewsHandler) GenerateNews(c *gin.Context) {
	if err := h.generator.Run(); err != nil {
		log.Printf("Error generating news polls: %v", err)
		c.String(http.StatusInternalServerError, "Error generating news polls")
		return
	}
	c.String(http.StatusOK, "Generated new polls from live news")
}

// SearchNews searches all articles for a query, newest first
// GET /api/search-news?q=
func (h *NewsHandler) SearchNews(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing query"})
		return
	}

	articles, err := h.news.Everything(query, "publishedAt", 10)
	if err != nil {
		log.Printf("Error fetching search results: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching search results"})
		return
	}

	c.JSON(http.StatusOK, reshapeArticles(articles))
}

// RelatedNews searches articles most relevant to a query. Upstream
// NewsAPI failures propagate their status code when available.
// GET /api/related-news?q=
func (h *NewsHandler) RelatedNews(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing search query (q)"})
		return
	}

	log.Printf("Searching related news for: %q", query)

	articles, err := h.news.Everything(query, "relevancy", 10)
	if err != nil {
		status := http.StatusInternalServerError
		var apiErr *newsapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
			status = apiErr.StatusCode
		}
		log.Printf("Error fetching related news (status %d): %v", status, err)
		c.JSON(status, gin.H{"message": "Error fetching related news articles"})
		return
	}

	c.JSON(http.StatusOK, reshapeArticles(articles))
}

func reshapeArticles(articles []newsapi.Article) []searchResult {
	results := make([]searchResult, 0, len(articles))
	for _, a := range articles {
		results = append(results, searchResult{
			Title:  a.Title,
			URL:    a.URL,
			Source: a.Source.Name,
		})
	}
	return results
}
