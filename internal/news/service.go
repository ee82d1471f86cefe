package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"runway-agent/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	searchTTL = time.Hour
	browseTTL = 24 * time.Hour
)

// Searcher is any source of candidate articles.
type Searcher interface {
	Search(ctx context.Context, company string) ([]Article, error)
}

type newsAPISearcher struct{ c *NewsAPIClient }

func (s newsAPISearcher) Search(ctx context.Context, company string) ([]Article, error) {
	return s.c.Everything(ctx, company, 20)
}

// Service combines search, reading and summarizing into one intelligence feed.
type Service struct {
	sources    []Searcher
	reader     *Reader
	summarizer *Summarizer
	log        *logrus.Logger

	searchCache *ttlCache[[]Article]
	browseCache *ttlCache[string]
}

type Options struct {
	NewsAPIKey string
	// BrowserFallback enables the headless Chromium reader.
	BrowserFallback bool
}

// NewService wires NewsAPI (when a key is set) ahead of Bing RSS.
func NewService(opts Options, summarizer *Summarizer, log *logrus.Logger) *Service {
	var sources []Searcher
	if opts.NewsAPIKey != "" {
		sources = append(sources, newsAPISearcher{NewNewsAPIClient(opts.NewsAPIKey, "", log)})
	} else {
		log.Warn("NEWS_API_KEY not set; using Bing RSS only")
	}
	sources = append(sources, NewBingRSSClient(""))

	var renderer PageRenderer
	if opts.BrowserFallback {
		renderer = NewHeadlessRenderer()
	}
	return NewServiceWith(sources, NewReader(renderer, log), summarizer, log)
}

// NewServiceWith builds a service from explicit parts.
func NewServiceWith(sources []Searcher, reader *Reader, summarizer *Summarizer, log *logrus.Logger) *Service {
	return &Service{
		sources:     sources,
		reader:      reader,
		summarizer:  summarizer,
		log:         log,
		searchCache: newTTLCache[[]Article](searchTTL),
		browseCache: newTTLCache[string](browseTTL),
	}
}

// Search returns up to n relevant articles. A failing source is logged and skipped.
func (s *Service) Search(ctx context.Context, company string, n int) ([]Article, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, &model.ValidationError{Field: "company_name", Reason: "is required"}
	}
	key := fmt.Sprintf("%s|%d", company, n)
	if cached, ok := s.searchCache.Get(key); ok {
		return cached, nil
	}

	results := make([][]Article, 0, len(s.sources))
	failures := 0
	for _, src := range s.sources {
		list, err := src.Search(ctx, company)
		if err != nil {
			failures++
			s.log.WithError(err).WithField("company", company).Warn("news source failed")
			continue
		}
		results = append(results, list)
	}
	if failures > 0 && failures == len(s.sources) {
		return nil, fmt.Errorf("all news sources failed for %q", company)
	}

	out := mergeRelevant(company, n, results...)
	if len(out) == 0 {
		s.log.WithField("company", company).Info("no relevant news found")
		return out, nil
	}
	// Partial results are served but not cached; the next call retries every source.
	if failures == 0 {
		s.searchCache.Set(key, out)
	}
	return out, nil
}

// Browse returns the article body text, or "" when it cannot be read.
func (s *Service) Browse(ctx context.Context, url string) string {
	if cached, ok := s.browseCache.Get(url); ok {
		return cached
	}
	text := s.reader.Read(ctx, url)
	if text != "" {
		s.browseCache.Set(url, text)
	}
	return text
}

func (s *Service) Summarize(ctx context.Context, text, company string) (model.AIInsight, error) {
	return s.summarizer.Summarize(ctx, text, company)
}

// Latest is the newest relevant article with its summary.
type Latest struct {
	Article Article         `json:"article"`
	Insight model.AIInsight `json:"insight"`
}

// LatestInsight searches, reads and summarizes the single newest article.
// It returns nil, nil when nothing relevant was found.
func (s *Service) LatestInsight(ctx context.Context, company string) (*Latest, error) {
	articles, err := s.Search(ctx, company, 1)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	a := articles[0]
	insight, err := s.Summarize(ctx, s.Browse(ctx, a.URL), company)
	if err != nil {
		return nil, err
	}
	return &Latest{Article: a, Insight: insight}, nil
}
