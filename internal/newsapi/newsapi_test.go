package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_News(t *testing.T) {
	var gotQuery, gotSort, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		gotSort = r.URL.Query().Get("sortBy")
		gotKey = r.URL.Query().Get("apiKey")
		if gotKey != "news-key" {
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck // Test server
			w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
			return
		}
		//nolint:errcheck // Test server
		w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{
			"source":{"id":null,"name":"Reuters"},
			"author":"Jane Doe",
			"title":"Apple ships",
			"description":"Apple shipped something.",
			"url":"https://example.com/a",
			"urlToImage":"https://example.com/a.jpg",
			"publishedAt":"2024-06-01T10:00:00Z"
		}]}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("maps articles", func(t *testing.T) {
		client := NewClient("news-key").WithBaseURL(srv.URL)
		articles, err := client.News(context.Background(), "Apple Inc.")
		if err != nil {
			t.Fatalf("News() returned unexpected error: %v", err)
		}
		if len(articles) != 1 {
			t.Fatalf("Expected 1 article, got %d", len(articles))
		}
		a := articles[0]
		if a.Source != "Reuters" || a.Title != "Apple ships" || a.ImageURL != "https://example.com/a.jpg" {
			t.Errorf("Unexpected article: %+v", a)
		}
		if a.PublishedAt.Year() != 2024 {
			t.Errorf("Expected published year 2024, got %v", a.PublishedAt)
		}
		if gotQuery != "Apple Inc." || gotSort != "publishedAt" {
			t.Errorf("Unexpected query parameters q=%q sortBy=%q", gotQuery, gotSort)
		}
	})

	t.Run("api error", func(t *testing.T) {
		client := NewClient("bad").WithBaseURL(srv.URL)
		if _, err := client.News(context.Background(), "Apple"); err == nil {
			t.Error("Expected error for invalid key")
		}
	})
}
