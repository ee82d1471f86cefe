package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"runway-agent/internal/model"
	"runway-agent/internal/news"
)

const (
	ToolCompanyProfile    = "GetCompanyProfile"
	ToolLatestNews        = "GetLatestNewsSummary"
	ToolFinancialScenario = "AnalyzeFinancialScenario"
	ToolAddToWatchlist    = "AddToWatchlist"
	ToolGetWatchlist      = "GetWatchlist"
)

type ProfileLookup interface {
	Lookup(query string) (*model.CompanyProfile, bool)
}

type NewsFeed interface {
	LatestInsight(ctx context.Context, company string) (*news.Latest, error)
}

type WatchlistStore interface {
	AddToWatchlist(ctx context.Context, company string) (bool, error)
	Watchlist(ctx context.Context) ([]string, error)
}

// Deps are the services behind the default tools. Nil services make their
// tools answer that the capability is unavailable.
type Deps struct {
	Profiles  ProfileLookup
	News      NewsFeed
	Watchlist WatchlistStore
	Financial *FinancialAnalyzer
}

// DefaultTools registers the assistant's five tools.
func DefaultTools(d Deps) *Registry {
	r := NewRegistry()

	r.Register(Tool{
		Name:          ToolCompanyProfile,
		Description:   "Look up a company's registry profile, funding history or patents. Input: the exact company name.",
		InputRequired: true,
		Run: func(_ context.Context, name string) (string, error) {
			if d.Profiles == nil {
				return "Company profiles are not available.", nil
			}
			p, ok := d.Profiles.Lookup(name)
			if !ok {
				return "No information about this company was found in the database.", nil
			}
			return toJSON(p)
		},
	})

	r.Register(Tool{
		Name:          ToolLatestNews,
		Description:   "Get an AI summary of a company's latest market news. Input: the exact company name.",
		InputRequired: true,
		Run: func(ctx context.Context, name string) (string, error) {
			if d.News == nil {
				return "News intelligence is not configured.", nil
			}
			latest, err := d.News.LatestInsight(ctx, name)
			if err != nil {
				return "", err
			}
			if latest == nil {
				return "No recent news about this company was found.", nil
			}
			return toJSON(latest)
		},
	})

	r.Register(Tool{
		Name: ToolFinancialScenario,
		Description: "Simulate and forecast a company's cash flow and runway. Use when the question mentions cash flow, runway, " +
			"financing or forecasts together with concrete amounts. Input: the question in natural language.",
		InputRequired: true,
		Run: func(ctx context.Context, query string) (string, error) {
			if d.Financial == nil {
				return "Financial analysis is not available.", nil
			}
			return d.Financial.Analyze(ctx, query)
		},
	})

	r.Register(Tool{
		Name:          ToolAddToWatchlist,
		Description:   "Start monitoring or tracking a company. Input: the exact company name.",
		InputRequired: true,
		Run: func(ctx context.Context, name string) (string, error) {
			if d.Watchlist == nil {
				return "The watchlist is not available.", nil
			}
			added, err := d.Watchlist.AddToWatchlist(ctx, name)
			if err != nil {
				return "", err
			}
			if !added {
				return fmt.Sprintf("%s is already on the watchlist.", name), nil
			}
			return fmt.Sprintf("Added %s to the watchlist.", name), nil
		},
	})

	r.Register(Tool{
		Name:        ToolGetWatchlist,
		Description: "List every company currently on the watchlist. Takes no input.",
		Run: func(ctx context.Context, _ string) (string, error) {
			if d.Watchlist == nil {
				return "The watchlist is not available.", nil
			}
			names, err := d.Watchlist.Watchlist(ctx)
			if err != nil {
				return "", err
			}
			if len(names) == 0 {
				return "The watchlist is empty.", nil
			}
			return strings.Join(names, ", "), nil
		},
	})

	return r
}

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
