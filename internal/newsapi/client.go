// Package newsapi is a thin client for the NewsAPI.org REST API.
package newsapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const BaseURL = "https://newsapi.org/v2"

// Client calls NewsAPI.org endpoints
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Article is a single headline returned by NewsAPI
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type headlinesResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

// APIError carries the upstream HTTP status so handlers can propagate it
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi error: %d - %s", e.StatusCode, e.Message)
}

// NewClient creates a NewsAPI client
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: BaseURL,
		apiKey:  apiKey,
	}
}

// TopHeadlines fetches top headlines for a country and category
func (c *Client) TopHeadlines(country, category string, pageSize int) ([]Article, error) {
	params := url.Values{}
	params.Set("country", country)
	params.Set("category", category)
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))

	return c.get("/top-headlines", params)
}

// Everything searches all articles for a query, sorted by the given
// field (publishedAt, relevancy, popularity)
func (c *Client) Everything(query, sortBy string, pageSize int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	params.Set("sortBy", sortBy)

	return c.get("/everything", params)
}

func (c *Client) get(path string, params url.Values) ([]Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("NewsAPI key is not configured")
	}
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequest("GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	defer resp.Body.Close()

	var result headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Status == "error" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    result.Message,
		}
	}

	return result.Articles, nil
}
