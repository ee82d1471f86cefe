package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// NewsAPIClient queries newsapi.org's /v2/everything endpoint.
type NewsAPIClient struct {
	APIKey   string
	BaseURL  string
	Language string
	Client   *http.Client
	log      *logrus.Logger
}

// NewNewsAPIClient creates a client. If baseURL is empty, defaults to "https://newsapi.org".
func NewNewsAPIClient(apiKey, baseURL string, log *logrus.Logger) *NewsAPIClient {
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}
	return &NewsAPIClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// APIError is a non-2xx answer from an upstream news API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Everything returns up to pageSize articles for the exact company name, newest first.
func (c *NewsAPIClient) Everything(ctx context.Context, company string, pageSize int) ([]Article, error) {
	if c.APIKey == "" {
		return nil, &APIError{Code: "MISSING_API_KEY", Message: "NewsAPI key is required"}
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	u, err := url.Parse(c.BaseURL + "/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", fmt.Sprintf("%q", company))
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprint(pageSize))
	if c.Language != "" {
		q.Set("language", c.Language)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"source":   "newsapi",
		"company":  company,
		"status":   resp.StatusCode,
		"duration": duration.String(),
	}).Debug("news search response")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, &APIError{StatusCode: resp.StatusCode, Code: "UNAUTHORIZED", Message: "Unauthorized: invalid NewsAPI key"}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("NewsAPI returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Status != "ok" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: body.Code, Message: body.Message}
	}

	out := make([]Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		out = append(out, Article{
			Title:       a.Title,
			URL:         a.URL,
			Description: a.Description,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}
