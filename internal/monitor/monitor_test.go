package monitor

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"runway-agent/internal/model"
	"runway-agent/internal/news"
	"runway-agent/internal/notify"
	"runway-agent/internal/store"

	"github.com/sirupsen/logrus"
)

type fakeIntel struct {
	articles  map[string][]news.Article
	texts     map[string]string
	searchErr map[string]error
	summaries int
}

func (f *fakeIntel) Search(_ context.Context, company string, _ int) ([]news.Article, error) {
	if err := f.searchErr[company]; err != nil {
		return nil, err
	}
	return f.articles[company], nil
}

func (f *fakeIntel) Browse(_ context.Context, url string) string { return f.texts[url] }

func (f *fakeIntel) Summarize(_ context.Context, _, company string) (model.AIInsight, error) {
	f.summaries++
	return model.AIInsight{EventType: "Funding", KeyEntities: "Fund A", Sentiment: model.SentimentPositive, Summary: company + " raised"}, nil
}

type recordingNotifier struct{ alerts []notify.Alert }

func (r *recordingNotifier) Notify(_ context.Context, a notify.Alert) error {
	r.alerts = append(r.alerts, a)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setup(t *testing.T) (*store.Store, *fakeIntel, *recordingNotifier, *Monitor) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	intel := &fakeIntel{
		articles: map[string][]news.Article{
			"Acme":   {{Title: "Acme raises", URL: "https://n/acme"}},
			"Beta":   {{Title: "Beta paywalled", URL: "https://n/beta"}},
			"Gamma":  nil,
			"Broken": nil,
		},
		texts:     map[string]string{"https://n/acme": "long enough article text"},
		searchErr: map[string]error{"Broken": errors.New("timeout")},
	}
	rec := &recordingNotifier{}
	return s, intel, rec, New(s, intel, rec, quietLogger())
}

func TestRunOnceCreatesAlertsOnce(t *testing.T) {
	ctx := context.Background()
	s, intel, rec, m := setup(t)
	for _, c := range []string{"Acme", "Beta", "Gamma", "Broken"} {
		if _, err := s.AddToWatchlist(ctx, c); err != nil {
			t.Fatalf("watch: %v", err)
		}
	}

	rep, err := m.RunOnce(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Created != 1 || len(rep.Outcomes) != 4 {
		t.Fatalf("report = %+v", rep)
	}
	want := map[string]Status{
		"Acme":   StatusAlertCreated,
		"Beta":   StatusUnreadable,
		"Gamma":  StatusNoNews,
		"Broken": StatusSearchFailed,
	}
	for _, o := range rep.Outcomes {
		if o.Status != want[o.Company] {
			t.Errorf("%s: status=%s want=%s", o.Company, o.Status, want[o.Company])
		}
	}
	if len(rec.alerts) != 1 || rec.alerts[0].Text != "**Funding**: Acme raised (sentiment: positive)" {
		t.Fatalf("notified = %+v", rec.alerts)
	}

	alerts, err := s.UnreadAlerts(ctx)
	if err != nil || len(alerts) != 1 || alerts[0].NewsTitle != "Acme raises" {
		t.Fatalf("alerts = %+v, %v", alerts, err)
	}

	rep, err = m.RunOnce(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if rep.Created != 0 || intel.summaries != 1 {
		t.Fatalf("second run should skip known URL: %+v summaries=%d", rep, intel.summaries)
	}
}

func TestRunOnceRejectsOverlap(t *testing.T) {
	_, _, _, m := setup(t)
	m.running.Lock()
	defer m.running.Unlock()
	if _, err := m.RunOnce(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	_, _, _, m := setup(t)
	if _, err := m.Schedule("not a cron spec"); err == nil {
		t.Fatalf("expected error")
	}
	c, err := m.Schedule("@every 1h")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	c.Stop()
}
