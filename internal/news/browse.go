package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (compatible; runway-agent/1.0)"

const (
	minReaderChars    = 100
	minParagraphChars = 30
	maxBodyBytes      = 5 << 20
)

// PageRenderer returns the visible text of a page after scripts run.
type PageRenderer interface {
	RenderText(ctx context.Context, url string) (string, error)
}

// Reader fetches article body text, trying progressively heavier strategies.
type Reader struct {
	// JinaBaseURL is prefixed to the article URL, e.g. "https://r.jina.ai/".
	JinaBaseURL string
	Client      *http.Client
	// Renderer is the optional last resort; nil disables it.
	Renderer PageRenderer
	log      *logrus.Logger
}

func NewReader(renderer PageRenderer, log *logrus.Logger) *Reader {
	return &Reader{
		JinaBaseURL: "https://r.jina.ai/",
		Client:      &http.Client{Timeout: 20 * time.Second},
		Renderer:    renderer,
		log:         log,
	}
}

// Read returns the article text, or "" when every strategy failed.
func (r *Reader) Read(ctx context.Context, articleURL string) string {
	entry := r.log.WithField("url", articleURL)

	text, err := r.viaJina(ctx, articleURL)
	if err == nil && runeLen(text) > minReaderChars {
		return text
	}
	if err != nil {
		entry.WithError(err).Warn("jina reader failed")
	}

	text, err = r.viaParagraphs(ctx, articleURL)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		entry.WithError(err).Warn("paragraph scrape failed")
	}

	if r.Renderer != nil {
		text, err = r.Renderer.RenderText(ctx, articleURL)
		if err == nil && runeLen(text) > minReaderChars {
			return text
		}
		if err != nil {
			entry.WithError(err).Warn("headless render failed")
		}
	}
	return ""
}

func (r *Reader) viaJina(ctx context.Context, articleURL string) (string, error) {
	body, err := r.get(ctx, r.JinaBaseURL+articleURL)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		var env struct {
			Data struct {
				Content string `json:"content"`
			} `json:"data"`
		}
		if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
			return "", fmt.Errorf("decode reader json: %w", err)
		}
		return env.Data.Content, nil
	}
	return trimmed, nil
}

func (r *Reader) viaParagraphs(ctx context.Context, articleURL string) (string, error) {
	body, err := r.get(ctx, articleURL)
	if err != nil {
		return "", err
	}
	return ExtractParagraphs(string(body))
}

// ExtractParagraphs joins the text of every <p> longer than 30 characters.
func ExtractParagraphs(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	var paras []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		t := strings.TrimSpace(sel.Text())
		if runeLen(t) > minParagraphChars {
			paras = append(paras, t)
		}
	})
	return strings.Join(paras, "\n"), nil
}

func (r *Reader) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: "FETCH_FAILED", Message: fmt.Sprintf("GET %s: status %d", u, resp.StatusCode)}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func runeLen(s string) int { return len([]rune(s)) }
