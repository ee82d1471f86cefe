package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"runway-agent/internal/forecast"
	"runway-agent/internal/llm"
	"runway-agent/internal/model"
	"runway-agent/internal/news"
	"runway-agent/internal/profile"
)

// scripted replays canned completions and records every prompt it was sent.
type scripted struct {
	mu      sync.Mutex
	replies []string
	prompts []string
}

func (s *scripted) provider() llm.Provider {
	return llm.ProviderFunc(func(_ context.Context, _, prompt string, _ llm.Options) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.prompts = append(s.prompts, prompt)
		if len(s.replies) == 0 {
			return "I am not sure what to do.", nil
		}
		r := s.replies[0]
		s.replies = s.replies[1:]
		return r, nil
	})
}

type fakeWatchlist struct {
	names []string
}

func (f *fakeWatchlist) AddToWatchlist(_ context.Context, name string) (bool, error) {
	for _, n := range f.names {
		if n == name {
			return false, nil
		}
	}
	f.names = append(f.names, name)
	return true, nil
}

func (f *fakeWatchlist) Watchlist(context.Context) ([]string, error) {
	return append([]string(nil), f.names...), nil
}

type fakeNews struct {
	latest *news.Latest
	err    error
}

func (f fakeNews) LatestInsight(context.Context, string) (*news.Latest, error) {
	return f.latest, f.err
}

func TestParseDecision(t *testing.T) {
	d, err := parseDecision("Thought: I should check.\nAction: GetWatchlist\nAction Input: \"\"")
	if err != nil {
		t.Fatalf("parse action: %v", err)
	}
	if d.final || d.action != ToolGetWatchlist || d.thought != "I should check." {
		t.Fatalf("unexpected decision %+v", d)
	}

	d, err = parseDecision("Thought: I now know the final answer\nFinal Answer: 6 months of runway.")
	if err != nil {
		t.Fatalf("parse final: %v", err)
	}
	if !d.final || d.output != "6 months of runway." {
		t.Fatalf("unexpected final decision %+v", d)
	}

	d, err = parseDecision("Action: GetCompanyProfile\nAction Input: Moonshot AI\nObservation: made up\nFinal Answer: also made up")
	if err != nil {
		t.Fatalf("parse with hallucinated observation: %v", err)
	}
	if d.final || d.actionInput != "Moonshot AI" {
		t.Fatalf("text after Observation should be dropped, got %+v", d)
	}

	if _, err := parseDecision("Action: GetWatchlist\nAction Input: x\nFinal Answer: y"); !errors.Is(err, bothOutcomes) {
		t.Fatalf("expected bothOutcomes, got %v", err)
	}
	if _, err := parseDecision("Action: GetWatchlist"); !errors.Is(err, missingInput) {
		t.Fatalf("expected missingInput, got %v", err)
	}
	if _, err := parseDecision("just chatting"); !errors.Is(err, missingAction) {
		t.Fatalf("expected missingAction, got %v", err)
	}
}

func TestAgentToolThenFinalAnswer(t *testing.T) {
	wl := &fakeWatchlist{names: []string{"Moonshot AI"}}
	s := &scripted{replies: []string{
		" I should look at the watchlist.\nAction: GetWatchlist\nAction Input: ",
		" I now know the final answer\nFinal Answer: You are watching Moonshot AI.",
	}}
	a := New(s.provider(), DefaultTools(Deps{Watchlist: wl}), nil)
	sess := NewSession(0)

	ans, err := a.Ask(context.Background(), sess, "What am I watching?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Output != "You are watching Moonshot AI." || ans.Stopped || ans.Iterations != 2 {
		t.Fatalf("unexpected answer %+v", ans)
	}
	if len(ans.Steps) != 1 || ans.Steps[0].Observation != "Moonshot AI" {
		t.Fatalf("unexpected steps %+v", ans.Steps)
	}
	if !strings.Contains(s.prompts[1], "Observation: Moonshot AI") {
		t.Fatalf("second prompt should carry the observation:\n%s", s.prompts[1])
	}

	hist := sess.History()
	if len(hist) != 2 || hist[0].Role != RoleUser || hist[1].Content != ans.Output {
		t.Fatalf("unexpected session memory %+v", hist)
	}

	// The next question sees the previous exchange.
	s.replies = []string{"Final Answer: ok"}
	if _, err := a.Ask(context.Background(), sess, "Thanks"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(s.prompts[2], "Human: What am I watching?") {
		t.Fatalf("history missing from prompt:\n%s", s.prompts[2])
	}
}

func TestAgentFeedsParseErrorsBack(t *testing.T) {
	s := &scripted{replies: []string{
		"hmm",
		"Final Answer: done",
	}}
	a := New(s.provider(), DefaultTools(Deps{}), nil)

	ans, err := a.Ask(context.Background(), NewSession(0), "hello")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Output != "done" || len(ans.Steps) != 0 {
		t.Fatalf("unexpected answer %+v", ans)
	}
	if !strings.Contains(s.prompts[1], "invalid format") {
		t.Fatalf("parse error should be observed:\n%s", s.prompts[1])
	}
}

func TestAgentUnknownToolIsObserved(t *testing.T) {
	s := &scripted{replies: []string{
		"Action: Teleport\nAction Input: Mars",
		"Final Answer: cannot",
	}}
	a := New(s.provider(), DefaultTools(Deps{}), nil)

	ans, err := a.Ask(context.Background(), NewSession(0), "go to Mars")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(ans.Steps) != 1 || !strings.Contains(ans.Steps[0].Observation, "unknown tool") {
		t.Fatalf("unexpected steps %+v", ans.Steps)
	}
}

func TestAgentStopsAtIterationLimit(t *testing.T) {
	s := &scripted{}
	a := New(s.provider(), DefaultTools(Deps{}), nil)
	a.MaxIterations = 3

	ans, err := a.Ask(context.Background(), NewSession(0), "loop forever")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !ans.Stopped || ans.Iterations != 3 || ans.Output != stoppedOutput {
		t.Fatalf("unexpected answer %+v", ans)
	}
	if len(s.prompts) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(s.prompts))
	}
}

func TestAgentProviderErrorAborts(t *testing.T) {
	boom := errors.New("quota exceeded")
	p := llm.ProviderFunc(func(context.Context, string, string, llm.Options) (string, error) {
		return "", boom
	})
	sess := NewSession(0)
	if _, err := New(p, DefaultTools(Deps{}), nil).Ask(context.Background(), sess, "hi"); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(sess.History()) != 0 {
		t.Fatalf("failed question must not be remembered")
	}
}

func TestAgentRejectsEmptyQuestion(t *testing.T) {
	a := New((&scripted{}).provider(), DefaultTools(Deps{}), nil)
	if _, err := a.Ask(context.Background(), NewSession(0), "   "); err == nil {
		t.Fatalf("expected error for empty question")
	}
}

func TestFinancialAnalyzerReport(t *testing.T) {
	s := &scripted{replies: []string{"```json\n{\"initial_cash\": 200, \"monthly_burn\": 30, \"b2c_monthly_revenue\": 0}\n```"}}
	f := NewFinancialAnalyzer(s.provider(), nil)

	out, err := f.Analyze(context.Background(), "We have 2 million CNY and burn 300k a month")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, want := range []string{"**Cash runway**: 6 months", "17/100", "Critical", "unit: 10k CNY", "| 170.00 |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if rows := strings.Count(out, "\n| 20"); rows != 6 {
		t.Fatalf("expected 6 preview rows, got %d:\n%s", rows, out)
	}
}

func TestFinancialAnalyzerRefusesDegenerateInput(t *testing.T) {
	s := &scripted{replies: []string{`{"initial_cash": 0, "monthly_burn": 0}`}}
	out, err := NewFinancialAnalyzer(s.provider(), nil).Analyze(context.Background(), "how long will we last?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.HasPrefix(out, "Not enough information") {
		t.Fatalf("unexpected answer %q", out)
	}
}

func TestFinancialAnalyzerExplainsInvalidNumbers(t *testing.T) {
	s := &scripted{replies: []string{`{"initial_cash": 100, "monthly_burn": 0}`}}
	out, err := NewFinancialAnalyzer(s.provider(), nil).Analyze(context.Background(), "100 in the bank")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.Contains(out, "monthly_burn") {
		t.Fatalf("expected the offending field in %q", out)
	}
}

func TestFinancialAnalyzerContractsUseDefaultDecay(t *testing.T) {
	s := &scripted{replies: []string{`{"initial_cash": 100, "monthly_burn": 10, "b2c_monthly_revenue": 0,
		"b2b_contracts": [{"contract_name": "pilot", "value": 1000, "sign_date": "2025-01-15", "payment_terms_months": 0}]}`}}
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := NewFinancialAnalyzer(s.provider(), forecast.NewAt(jan)).Analyze(context.Background(), "100 cash, 10 burn, a 1000 pilot signed in January")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, want := range []string{"| 2025-01 | 950.00 | 10.00 | 940.00 | 1040.00 |", "**Cash runway**: 36 months", "100/100", "Low"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFinancialAnalyzerExplainsBadContract(t *testing.T) {
	s := &scripted{replies: []string{`{"initial_cash": 100, "monthly_burn": 10,
		"b2b_contracts": [{"contract_name": "pilot", "value": 1000, "sign_date": "next spring"}]}`}}
	out, err := NewFinancialAnalyzer(s.provider(), nil).Analyze(context.Background(), "?")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.HasPrefix(out, "Sorry") || !strings.Contains(out, "sign_date") {
		t.Fatalf("unexpected answer %q", out)
	}
}

func TestFinancialAnalyzerBadJSON(t *testing.T) {
	s := &scripted{replies: []string{"no numbers here"}}
	if _, err := NewFinancialAnalyzer(s.provider(), nil).Analyze(context.Background(), "?"); err == nil {
		t.Fatalf("expected extraction error")
	}
}

func TestDefaultTools(t *testing.T) {
	dir := profile.New([]model.CompanyProfile{{CompanyName: "Moonshot AI", LegalRepresentative: "Yang Zhilin"}})
	wl := &fakeWatchlist{}
	latest := &news.Latest{
		Article: news.Article{Title: "Moonshot raises", URL: "https://example.com/a"},
		Insight: model.AIInsight{EventType: "Financing", Summary: "Raised a round", Sentiment: model.SentimentPositive},
	}
	r := DefaultTools(Deps{Profiles: dir, News: fakeNews{latest: latest}, Watchlist: wl})
	ctx := context.Background()

	want := []string{ToolCompanyProfile, ToolLatestNews, ToolFinancialScenario, ToolAddToWatchlist, ToolGetWatchlist}
	if got := r.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("tool names = %v", got)
	}

	out, err := r.Invoke(ctx, ToolCompanyProfile, "moonshot ai")
	if err != nil || !strings.Contains(out, "Yang Zhilin") {
		t.Fatalf("profile lookup: %q %v", out, err)
	}
	out, _ = r.Invoke(ctx, ToolCompanyProfile, "Nobody Inc")
	if !strings.HasPrefix(out, "No information") {
		t.Fatalf("unexpected miss answer %q", out)
	}

	out, err = r.Invoke(ctx, ToolLatestNews, "Moonshot AI")
	if err != nil || !strings.Contains(out, "Raised a round") {
		t.Fatalf("latest news: %q %v", out, err)
	}

	out, _ = r.Invoke(ctx, ToolGetWatchlist, "")
	if out != "The watchlist is empty." {
		t.Fatalf("unexpected empty watchlist answer %q", out)
	}
	if out, _ = r.Invoke(ctx, ToolAddToWatchlist, `"Moonshot AI"`); out != "Added Moonshot AI to the watchlist." {
		t.Fatalf("unexpected add answer %q", out)
	}
	if out, _ = r.Invoke(ctx, ToolAddToWatchlist, "Moonshot AI"); !strings.Contains(out, "already") {
		t.Fatalf("unexpected duplicate answer %q", out)
	}
	wl.names = append(wl.names, "Example Robotics")
	if out, _ = r.Invoke(ctx, ToolGetWatchlist, ""); out != "Moonshot AI, Example Robotics" {
		t.Fatalf("unexpected watchlist %q", out)
	}

	if _, err := r.Invoke(ctx, ToolAddToWatchlist, "  "); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := r.Invoke(ctx, "Nope", "x"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestSessionMemoryIsBounded(t *testing.T) {
	s := NewSession(3)
	for _, c := range []string{"a", "b", "c", "d"} {
		s.Append(RoleUser, c)
	}
	h := s.History()
	if len(h) != 3 || h[0].Content != "b" {
		t.Fatalf("unexpected history %+v", h)
	}
}

func TestManagerSessions(t *testing.T) {
	m := NewManager(0)
	a := m.Get("")
	if a.ID == "" {
		t.Fatalf("expected generated session id")
	}
	if m.Get(a.ID) != a {
		t.Fatalf("expected the same session back")
	}
	if b := m.Get("unknown"); b == a || b.ID == "unknown" {
		t.Fatalf("unknown id should create a fresh session")
	}
	m.Delete(a.ID)
	if m.Get(a.ID) == a {
		t.Fatalf("deleted session should not be returned")
	}
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	m := NewManager(0)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	a := m.Get("")
	now = now.Add(m.IdleTimeout - time.Second)
	if m.Get(a.ID) != a {
		t.Fatalf("session used within the idle timeout should survive")
	}
	now = now.Add(m.IdleTimeout + time.Second)
	if m.Get(a.ID) == a {
		t.Fatalf("idle session should have expired")
	}
	if m.Len() != 1 {
		t.Fatalf("expected only the replacement session, got %d", m.Len())
	}
}

func TestManagerCapsSessions(t *testing.T) {
	m := NewManager(0)
	m.MaxSessions = 2
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	a := m.Get("")
	now = now.Add(time.Second)
	b := m.Get("")
	now = now.Add(time.Second)
	m.Get(a.ID) // a is now more recent than b
	now = now.Add(time.Second)
	m.Get("")

	if m.Len() != 2 {
		t.Fatalf("expected 2 live sessions, got %d", m.Len())
	}
	if m.Get(a.ID) != a {
		t.Fatalf("recently used session should be kept")
	}
	if m.Get(b.ID) == b {
		t.Fatalf("least recently used session should be evicted")
	}
}
