package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func completionBody(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return body
}

func newTestGenerator(baseURL string) *QuestionGenerator {
	return &QuestionGenerator{
		client:      NewClient(baseURL, "test-key", "test-model"),
		maxAttempts: 3,
		retryDelay:  time.Millisecond,
	}
}

func TestGenerateParsesQuestion(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Prose around the JSON object exercises the extraction
		content := "Here is the question:\n{\"title\": \"Will the bill pass this month?\", \"options\": [{\"name\": \"Yes\"}, {\"name\": \"No\"}, {\"name\": \"Delayed\"}]}\nDone."
		w.Write(completionBody(content))
	})

	generated, err := newTestGenerator(server.URL).Generate("Senate debates new bill")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if generated.Title != "Will the bill pass this month?" {
		t.Errorf("title = %q", generated.Title)
	}
	if len(generated.Options) != 3 {
		t.Fatalf("options = %d, want 3", len(generated.Options))
	}

	// Equal split with the remainder on the first option
	sum := 0
	for _, opt := range generated.Options {
		sum += opt.Price
	}
	if sum != 100 {
		t.Errorf("starting prices sum to %d, want 100", sum)
	}
	if generated.Options[0].Price != 34 || generated.Options[1].Price != 33 {
		t.Errorf("prices = %d/%d/%d, want 34/33/33",
			generated.Options[0].Price, generated.Options[1].Price, generated.Options[2].Price)
	}
}

func TestGenerateNotSuitable(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(`{"title": "NOT_SUITABLE", "options": []}`))
	})

	_, err := newTestGenerator(server.URL).Generate("10 Best Movies of 2024")
	if !errors.Is(err, ErrNotSuitable) {
		t.Fatalf("err = %v, want ErrNotSuitable", err)
	}
}

func TestGenerateMalformedOutputNotRetried(t *testing.T) {
	requests := 0
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(completionBody("I couldn't come up with anything."))
	})

	_, err := newTestGenerator(server.URL).Generate("Some headline")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, malformed output must not be retried", requests)
	}
}

func TestGenerateTooFewOptions(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(`{"title": "Will it happen?", "options": [{"name": "Yes"}]}`))
	})

	_, err := newTestGenerator(server.URL).Generate("Some headline")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	requests := 0
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(completionBody(`{"title": "Will it happen?", "options": [{"name": "Yes"}, {"name": "No"}]}`))
	})

	generated, err := newTestGenerator(server.URL).Generate("Some headline")
	if err != nil {
		t.Fatalf("Generate failed after retries: %v", err)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 2 rate-limited attempts then success", requests)
	}
	if generated.Title != "Will it happen?" {
		t.Errorf("title = %q", generated.Title)
	}
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	requests := 0
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := newTestGenerator(server.URL).Generate("Some headline")
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3 attempts", requests)
	}
}

func TestGenerateFailsFastOnClientError(t *testing.T) {
	requests := 0
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := newTestGenerator(server.URL).Generate("Some headline")
	if err == nil {
		t.Fatal("expected an error for a 401 response")
	}
	if requests != 1 {
		t.Errorf("requests = %d, auth errors must not be retried", requests)
	}
}
