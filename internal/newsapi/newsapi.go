// Package newsapi fetches recent articles about a company from NewsAPI.org.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://newsapi.org/v2"

const pageSize = 10

type response struct {
	Status   string    `json:"status"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Client implements quote.NewsProvider.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a NewsAPI client for apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// News returns the ten most recent articles mentioning companyName.
func (c *Client) News(ctx context.Context, companyName string) ([]model.Article, error) {
	params := url.Values{}
	params.Set("q", companyName)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprint(pageSize))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || body.Status == "error" {
		return nil, fmt.Errorf("newsapi error %s: %s", body.Code, body.Message)
	}

	articles := make([]model.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, model.Article{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
