// Package app assembles the long-lived services both binaries share.
package app

import (
	"context"
	"errors"
	"fmt"

	"runway-agent/internal/agent"
	"runway-agent/internal/config"
	"runway-agent/internal/forecast"
	"runway-agent/internal/llm"
	"runway-agent/internal/monitor"
	"runway-agent/internal/news"
	"runway-agent/internal/notify"
	"runway-agent/internal/profile"
	"runway-agent/internal/store"

	"github.com/sirupsen/logrus"
)

// App holds every service built from Settings. LLM, News, Monitor and Agent
// are nil when no language model is configured.
type App struct {
	Settings *config.Settings
	Log      *logrus.Logger
	Store    *store.Store
	Profiles *profile.Directory
	LLM      llm.Provider
	News     *news.Service
	Monitor  *monitor.Monitor
	Tools    *agent.Registry
	Agent    *agent.Agent
}

// New opens the database and wires the optional model-backed services.
func New(ctx context.Context, s *config.Settings, log *logrus.Logger) (*App, error) {
	st, err := store.Open(s.DBPath)
	if err != nil {
		return nil, err
	}
	profiles, err := profile.Load(s.ProfilesFile)
	if err != nil {
		st.Close()
		return nil, err
	}
	a := &App{Settings: s, Log: log, Store: st, Profiles: profiles}

	provider, err := llm.New(ctx, llm.Config{
		Provider:        s.LLMProvider,
		Model:           s.LLMModel,
		GeminiAPIKey:    s.GeminiAPIKey,
		AnthropicAPIKey: s.AnthropicAPIKey,
	})
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.WithError(err).Warn("language model not configured; chat, news summaries and monitoring are disabled")
	case err != nil:
		st.Close()
		return nil, fmt.Errorf("init llm: %w", err)
	default:
		a.LLM = provider
	}

	deps := agent.Deps{Profiles: profiles, Watchlist: st}
	if a.LLM != nil {
		a.News = news.NewService(news.Options{
			NewsAPIKey:      s.NewsAPIKey,
			BrowserFallback: s.BrowserFallback,
		}, news.NewSummarizer(a.LLM), log)

		notifier := notify.New(notify.SMTPConfig{
			Host:     s.SMTPHost,
			Port:     s.SMTPPort,
			Username: s.SMTPUsername,
			Password: s.SMTPPassword,
			From:     s.AlertFrom,
			To:       s.AlertTo,
		}, log)
		a.Monitor = monitor.New(st, a.News, notifier, log)

		deps.News = a.News
		deps.Financial = agent.NewFinancialAnalyzer(a.LLM, forecast.New())
	}
	a.Tools = agent.DefaultTools(deps)
	if a.LLM != nil {
		a.Agent = agent.New(a.LLM, a.Tools, log)
	}

	log.WithFields(logrus.Fields{
		"db":       s.DBPath,
		"profiles": profiles.Len(),
		"llm":      providerName(a.LLM),
	}).Info("services initialized")
	return a, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

func providerName(p llm.Provider) string {
	if p == nil {
		return "none"
	}
	return p.Name()
}
