package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// BingRSSClient reads the public Bing News RSS feed. It needs no key.
type BingRSSClient struct {
	BaseURL string
	Client  *http.Client
}

func NewBingRSSClient(baseURL string) *BingRSSClient {
	if baseURL == "" {
		baseURL = "https://www.bing.com"
	}
	return &BingRSSClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *BingRSSClient) Search(ctx context.Context, company string) ([]Article, error) {
	u, err := url.Parse(c.BaseURL + "/news/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", fmt.Sprintf("%q", company))
	q.Set("format", "rss")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("Bing RSS returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return parseRSS(body)
}

// parseRSS extracts channel items from an RSS 2.0 document.
func parseRSS(raw []byte) ([]Article, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse RSS: %w", err)
	}

	items := doc.FindElements("//item")
	out := make([]Article, 0, len(items))
	for _, item := range items {
		out = append(out, Article{
			Title:       childText(item, "title"),
			URL:         childText(item, "link"),
			Description: childText(item, "description"),
			PublishedAt: childText(item, "pubDate"),
			Source:      "bing",
		})
	}
	return out, nil
}

func childText(e *etree.Element, tag string) string {
	c := e.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
