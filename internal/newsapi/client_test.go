package newsapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    server.URL,
		apiKey:     "test-key",
	}
}

func TestTopHeadlinesParsesArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("country") != "us" || query.Get("category") != "technology" {
			t.Errorf("query = %v", query)
		}
		if query.Get("apiKey") != "test-key" {
			t.Error("apiKey not forwarded")
		}

		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{"title": "Chipmaker unveils new GPU", "url": "https://example.com/a", "source": {"name": "Example"}},
				{"title": "Startup raises round", "url": "https://example.com/b", "source": {"name": "Wire"}}
			]
		}`))
	})

	articles, err := client.TopHeadlines("us", "technology", 5)
	if err != nil {
		t.Fatalf("TopHeadlines failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}
	if articles[0].Title != "Chipmaker unveils new GPU" || articles[0].Source.Name != "Example" {
		t.Errorf("first article = %+v", articles[0])
	}
}

func TestEverythingSetsSearchParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("q") != "elections" || query.Get("sortBy") != "relevancy" || query.Get("language") != "en" {
			t.Errorf("query = %v", query)
		}
		w.Write([]byte(`{"status": "ok", "articles": []}`))
	})

	if _, err := client.Everything("elections", "relevancy", 10); err != nil {
		t.Fatalf("Everything failed: %v", err)
	}
}

func TestUpstreamErrorCarriesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status": "error", "code": "rateLimited", "message": "You have made too many requests."}`))
	})

	_, err := client.TopHeadlines("us", "business", 5)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", apiErr.StatusCode)
	}
	if apiErr.Message != "You have made too many requests." {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestMissingAPIKey(t *testing.T) {
	client := &Client{httpClient: http.DefaultClient, baseURL: BaseURL, apiKey: ""}
	if _, err := client.TopHeadlines("us", "business", 5); err == nil {
		t.Fatal("expected an error without an API key")
	}
}
