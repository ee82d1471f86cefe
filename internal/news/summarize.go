package news

import (
	"context"
	"fmt"
	"strings"

	"runway-agent/internal/llm"
	"runway-agent/internal/model"
)

const (
	minSummaryChars = 50
	maxSummaryChars = 12000
)

const summarySystem = "You are a senior venture capital analyst. You extract business intelligence from news and answer with strict JSON only."

// insufficientContent is returned without calling the model when there is too little text.
var insufficientContent = model.AIInsight{
	EventType:   "Insufficient content",
	KeyEntities: "None",
	Sentiment:   model.SentimentNeutral,
	Summary:     "Could not extract enough content from the news link to analyze.",
}

// Summarizer turns article text into a structured insight.
type Summarizer struct {
	provider llm.Provider
}

func NewSummarizer(p llm.Provider) *Summarizer {
	return &Summarizer{provider: p}
}

func (s *Summarizer) Summarize(ctx context.Context, text, company string) (model.AIInsight, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minSummaryChars {
		return insufficientContent, nil
	}
	if s.provider == nil {
		return model.AIInsight{}, llm.ErrNotConfigured
	}
	if r := []rune(text); len(r) > maxSummaryChars {
		text = string(r[:maxSummaryChars])
	}

	prompt := fmt.Sprintf(`Read the following news article about %q and extract the key business intelligence.
Return a JSON object with exactly these keys:
- "event_type": (string) the core event, e.g. "New funding round", "Product launch", "Executive change", "Strategic partnership", "Negative news".
- "key_entities": (string) key entities involved, comma separated, e.g. "Investor A, Partner B".
- "sentiment": (string) one of "positive", "neutral", "negative".
- "summary": (string) a concise summary of the event.

--- Article ---
%s`, company, text)

	raw, err := s.provider.Generate(ctx, summarySystem, prompt, llm.Options{JSON: true, Temperature: llm.Float(0.5)})
	if err != nil {
		return model.AIInsight{}, fmt.Errorf("summarize %q: %w", company, err)
	}

	var insight model.AIInsight
	if err := llm.DecodeJSON(raw, &insight); err != nil {
		return model.AIInsight{}, fmt.Errorf("summarize %q: %w", company, err)
	}
	insight.Sentiment = model.Sentiment(strings.ToLower(strings.TrimSpace(string(insight.Sentiment))))
	if err := insight.Validate(); err != nil {
		return model.AIInsight{}, fmt.Errorf("summarize %q: %w", company, err)
	}
	return insight, nil
}
