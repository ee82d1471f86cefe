package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"runway-agent/internal/model"
	"runway-agent/internal/news"
	"runway-agent/internal/notify"
	"runway-agent/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrAlreadyRunning is returned when a sweep is requested while one is in progress.
var ErrAlreadyRunning = errors.New("monitor run already in progress")

// Intelligence is the news pipeline the monitor drives.
type Intelligence interface {
	Search(ctx context.Context, company string, n int) ([]news.Article, error)
	Browse(ctx context.Context, url string) string
	Summarize(ctx context.Context, text, company string) (model.AIInsight, error)
}

// AlertStore is the persistence the monitor needs.
type AlertStore interface {
	Watchlist(ctx context.Context) ([]string, error)
	HasAlertURL(ctx context.Context, url string) (bool, error)
	SaveAlert(ctx context.Context, a store.Alert) (bool, error)
}

type Status string

const (
	StatusAlertCreated  Status = "alert_created"
	StatusNoNews        Status = "no_news"
	StatusAlreadySeen   Status = "already_seen"
	StatusUnreadable    Status = "unreadable"
	StatusSearchFailed  Status = "search_failed"
	StatusSummaryFailed Status = "summary_failed"
	StatusSaveFailed    Status = "save_failed"
)

// Outcome is what happened for one watchlist company.
type Outcome struct {
	Company   string `json:"company"`
	Status    Status `json:"status"`
	NewsTitle string `json:"news_title,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	AlertText string `json:"alert_text,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Monitor checks every watchlist company for its newest article and records
// an alert for each article not seen before.
type Monitor struct {
	store    AlertStore
	intel    Intelligence
	notifier notify.Notifier
	log      *logrus.Logger
	running  sync.Mutex
}

func New(s AlertStore, intel Intelligence, n notify.Notifier, log *logrus.Logger) *Monitor {
	if n == nil {
		n = notify.Nop{}
	}
	return &Monitor{store: s, intel: intel, notifier: n, log: log}
}

// RunOnce performs one sweep. Per-company failures are recorded in the report;
// only a failure to read the watchlist aborts the run.
func (m *Monitor) RunOnce(ctx context.Context) (*Report, error) {
	if !m.running.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer m.running.Unlock()

	rep := &Report{StartedAt: time.Now().UTC(), Outcomes: []Outcome{}}
	companies, err := m.store.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	if len(companies) == 0 {
		m.log.Info("watchlist is empty; nothing to monitor")
	} else {
		m.log.WithField("companies", len(companies)).Info("monitor run started")
	}

	for _, company := range companies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o := m.check(ctx, company)
		if o.Status == StatusAlertCreated {
			rep.Created++
		}
		rep.Outcomes = append(rep.Outcomes, o)
		m.log.WithFields(logrus.Fields{
			"company": company,
			"status":  o.Status,
			"url":     o.SourceURL,
		}).Info("monitor checked company")
	}

	rep.FinishedAt = time.Now().UTC()
	return rep, nil
}

func (m *Monitor) check(ctx context.Context, company string) Outcome {
	o := Outcome{Company: company}

	articles, err := m.intel.Search(ctx, company, 1)
	if err != nil {
		o.Status, o.Error = StatusSearchFailed, err.Error()
		return o
	}
	if len(articles) == 0 {
		o.Status = StatusNoNews
		return o
	}
	latest := articles[0]
	o.NewsTitle, o.SourceURL = latest.Title, latest.URL
	if o.NewsTitle == "" {
		o.NewsTitle = "Untitled"
	}

	seen, err := m.store.HasAlertURL(ctx, latest.URL)
	if err != nil {
		o.Status, o.Error = StatusSaveFailed, err.Error()
		return o
	}
	if seen {
		o.Status = StatusAlreadySeen
		return o
	}

	text := m.intel.Browse(ctx, latest.URL)
	if text == "" {
		o.Status = StatusUnreadable
		return o
	}

	insight, err := m.intel.Summarize(ctx, text, company)
	if err != nil {
		o.Status, o.Error = StatusSummaryFailed, err.Error()
		return o
	}
	o.AlertText = insight.AlertText()

	saved, err := m.store.SaveAlert(ctx, store.Alert{
		CompanyName: company,
		AlertText:   o.AlertText,
		SourceURL:   latest.URL,
		NewsTitle:   o.NewsTitle,
	})
	if err != nil {
		o.Status, o.Error = StatusSaveFailed, err.Error()
		return o
	}
	if !saved {
		o.Status = StatusAlreadySeen
		return o
	}
	o.Status = StatusAlertCreated

	if err := m.notifier.Notify(ctx, notify.Alert{
		Company:   company,
		Text:      o.AlertText,
		NewsTitle: o.NewsTitle,
		SourceURL: latest.URL,
	}); err != nil {
		m.log.WithError(err).WithField("company", company).Warn("alert notification failed")
	}
	return o
}

// Schedule runs RunOnce on a cron spec until the returned scheduler is stopped.
func (m *Monitor) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		rep, err := m.RunOnce(ctx)
		if err != nil {
			m.log.WithError(err).Warn("scheduled monitor run failed")
			return
		}
		m.log.WithField("created", rep.Created).Info("scheduled monitor run finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid monitor schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
