package model

import (
	"fmt"
	"strings"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AIInsight is the structured summary the model produces for one article.
type AIInsight struct {
	EventType   string    `json:"event_type"`
	KeyEntities string    `json:"key_entities"`
	Sentiment   Sentiment `json:"sentiment"`
	Summary     string    `json:"summary"`
}

func (a AIInsight) Validate() error {
	if strings.TrimSpace(a.EventType) == "" {
		return &ValidationError{Field: "event_type", Reason: "is required"}
	}
	if strings.TrimSpace(a.Summary) == "" {
		return &ValidationError{Field: "summary", Reason: "is required"}
	}
	switch a.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return &ValidationError{Field: "sentiment", Reason: fmt.Sprintf("must be positive, neutral or negative, got %q", a.Sentiment)}
	}
	return nil
}

// AlertText is the one-line form stored for the watchlist monitor.
func (a AIInsight) AlertText() string {
	return fmt.Sprintf("**%s**: %s (sentiment: %s)", a.EventType, a.Summary, a.Sentiment)
}

// CompanyProfile is registry-style background on a company.
type CompanyProfile struct {
	CompanyName         string         `json:"company_name"`
	Aliases             []string       `json:"aliases,omitempty"`
	LegalRepresentative string         `json:"legal_representative"`
	RegisteredCapital   string         `json:"registered_capital"`
	EstablishmentDate   string         `json:"establishment_date"`
	BusinessScope       string         `json:"business_scope"`
	FundingHistory      []FundingRound `json:"funding_history"`
	PatentInfo          []PatentInfo   `json:"patent_info"`
}

type FundingRound struct {
	RoundName string   `json:"round_name"` // e.g. "Series A", "Strategic"
	Date      string   `json:"date"`
	Amount    string   `json:"amount"` // free text, e.g. "$50M", "undisclosed"
	Investors []string `json:"investors"`
}

type PatentInfo struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	ApplicationDate string `json:"application_date"`
}
