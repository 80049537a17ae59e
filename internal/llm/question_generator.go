package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
)

// NotSuitableTitle is the sentinel the model returns for headlines
// that cannot be turned into a predictive question.
const NotSuitableTitle = "NOT_SUITABLE"

const systemPrompt = `You are a helpful assistant that creates predictive market questions from news headlines.
You must ONLY respond with a valid JSON object.
The JSON object must have two keys: "title" (string) and "options" (array).
The "title" should be a short, predictive question about a future, verifiable outcome.
The "options" array should contain 2-4 objects, each with a "name" (string) key.
Do NOT include "price" or "isCorrect" in the options.
If the headline is not suitable for a predictive question (e.g., "10 Best Movies of 2024"), respond ONLY with: {"title": "NOT_SUITABLE", "options": []}
`

// Sentinel errors for dropped headlines. Neither triggers a retry.
var (
	ErrNotSuitable = errors.New("headline not suitable for a predictive question")
	ErrMalformed   = errors.New("model returned malformed question JSON")
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// GeneratedOption is one outcome of a generated question
type GeneratedOption struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// GeneratedQuestion is the model's output for one headline, with
// equal starting prices assigned across the options.
type GeneratedQuestion struct {
	Title   string
	Options []GeneratedOption
}

// QuestionGenerator wraps a chat client with the retry policy for
// turning a single headline into a question.
type QuestionGenerator struct {
	client *Client

	maxAttempts int
	retryDelay  time.Duration
}

// NewQuestionGenerator creates a generator over the given client
func NewQuestionGenerator(client *Client) *QuestionGenerator {
	return &QuestionGenerator{
		client:      client,
		maxAttempts: 3,
		retryDelay:  5 * time.Second,
	}
}

// Generate asks the model for a predictive question based on the
// headline. Transport-level failures (429, 5xx, timeouts) are retried
// up to 3 times with exponential backoff; every other failure drops
// the headline immediately.
func (g *QuestionGenerator) Generate(headline string) (*GeneratedQuestion, error) {
	messages := []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Analyze the following headline and generate the JSON:\nHEADLINE: %q", headline)},
	}

	delay := g.retryDelay
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		log.Printf("[LLM] Attempt %d/%d for: %q", attempt, g.maxAttempts, headline)

		content, err := g.client.ChatCompletion(messages, 0.6, 300)
		if err != nil {
			lastErr = err
			if !retryable(err) {
				return nil, fmt.Errorf("non-retryable completion error: %w", err)
			}
			if attempt < g.maxAttempts {
				log.Printf("[LLM] Transient error (%v), retrying in %s...", err, delay)
				time.Sleep(delay)
				delay *= 2
				continue
			}
			return nil, fmt.Errorf("completion failed after %d attempts: %w", g.maxAttempts, err)
		}

		return parseQuestion(content)
	}

	return nil, lastErr
}

// retryable reports whether the error warrants another attempt:
// rate limiting, server-side failures, and transport/timeout errors.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	// Transport errors (timeouts, connection resets) come back wrapped
	// from the HTTP client rather than as APIError.
	return strings.Contains(err.Error(), "request failed")
}

// parseQuestion extracts and validates the JSON object from the raw
// model output. Malformed output is dropped, never retried.
func parseQuestion(content string) (*GeneratedQuestion, error) {
	jsonString := jsonObjectPattern.FindString(strings.TrimSpace(content))
	if jsonString == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformed)
	}

	var data struct {
		Title   string `json:"title"`
		Options []struct {
			Name string `json:"name"`
		} `json:"options"`
	}
	if err := json.Unmarshal([]byte(jsonString), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if data.Title == NotSuitableTitle {
		return nil, ErrNotSuitable
	}

	if data.Title == "" || len(data.Options) < 2 {
		return nil, fmt.Errorf("%w: missing title or fewer than two options", ErrMalformed)
	}

	// Equal starting prices, with the first option absorbing the
	// division remainder so the vector sums to exactly 100.
	price := 100 / len(data.Options)
	options := make([]GeneratedOption, 0, len(data.Options))
	for _, opt := range data.Options {
		name := opt.Name
		if name == "" {
			name = "Invalid Option"
		}
		options = append(options, GeneratedOption{Name: name, Price: price})
	}
	options[0].Price += 100 - price*len(options)

	return &GeneratedQuestion{
		Title:   data.Title,
		Options: options,
	}, nil
}
