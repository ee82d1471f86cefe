package analysis

import (
	"errors"
	"testing"
	"time"

	"runway-agent/internal/forecast"
	"runway-agent/internal/model"
)

func ledgerOf(endings ...float64) []forecast.Row {
	out := make([]forecast.Row, len(endings))
	for i, e := range endings {
		out[i] = forecast.Row{Month: "x", EndingCash: e}
	}
	return out
}

func TestRunwayAndScore(t *testing.T) {
	tests := []struct {
		name   string
		ledger []forecast.Row
		runway int
		score  float64
	}{
		{"empty", nil, 0, 0},
		{"negative first", ledgerOf(-1, 5), 0, 0},
		{"zero is not negative", ledgerOf(10, 0, -0.01), 2, 0.06},
		{"never negative", ledgerOf(1, 2, 3), 3, 0.08},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, s := RunwayAndScore(tt.ledger)
			if r != tt.runway || s != tt.score {
				t.Fatalf("got (%d, %v), want (%d, %v)", r, s, tt.runway, tt.score)
			}
		})
	}
}

func TestSurvivalScoreMonotoneAndClamped(t *testing.T) {
	prev := -1.0
	for r := 0; r <= 100; r++ {
		s := SurvivalScore(r)
		if s < prev {
			t.Fatalf("score decreased at runway %d: %v < %v", r, s, prev)
		}
		if s < 0 || s > 1 {
			t.Fatalf("score out of range at runway %d: %v", r, s)
		}
		prev = s
	}
	if SurvivalScore(36) != 1 || SurvivalScore(500) != 1 {
		t.Fatalf("score should saturate at 36 months")
	}
	if SurvivalScore(18) != 0.5 {
		t.Fatalf("SurvivalScore(18) = %v", SurvivalScore(18))
	}
}

func TestCashCrunchScenario(t *testing.T) {
	in := model.FinancialInput{InitialCash: 200, MonthlyBurn: 30}
	res, err := forecast.NewAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)).Run(in, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	a := Assess(res.Ledger)
	if a.RunwayMonths != 6 {
		t.Fatalf("runway = %d, want 6", a.RunwayMonths)
	}
	if a.SurvivalScore != 0.17 {
		t.Fatalf("score = %v, want 0.17", a.SurvivalScore)
	}
	if a.Urgency.Level != model.UrgencyCritical {
		t.Fatalf("urgency = %s, want Critical", a.Urgency.Level)
	}
	if a.FinalEndingCash != 200-30*36 {
		t.Fatalf("final ending = %v", a.FinalEndingCash)
	}
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		score float64
		want  model.UrgencyLevel
	}{
		{1.0, model.UrgencyLow},
		{0.76, model.UrgencyLow},
		{0.75, model.UrgencyMedium},
		{0.5, model.UrgencyMedium},
		{0.49, model.UrgencyHigh},
		{0.25, model.UrgencyHigh},
		{0.24, model.UrgencyCritical},
		{0, model.UrgencyCritical},
	}
	for _, tt := range tests {
		got := ClassifyUrgency(tt.score)
		if got.Level != tt.want {
			t.Errorf("ClassifyUrgency(%v) = %s, want %s", tt.score, got.Level, tt.want)
		}
		if got.Suggestion == "" {
			t.Errorf("ClassifyUrgency(%v) has no suggestion", tt.score)
		}
	}
}

func TestCheckFeasibility(t *testing.T) {
	f := CheckFeasibility(20, 10, DefaultBufferMonths)
	if !f.Feasible || f.RequiredMonths != 16 {
		t.Fatalf("got %+v", f)
	}
	f = CheckFeasibility(10, 10, DefaultBufferMonths)
	if f.Feasible {
		t.Fatalf("expected infeasible: %+v", f)
	}
	if f.Reason == "" {
		t.Fatalf("missing reason")
	}
	if !CheckFeasibility(16, 10, 6).Feasible {
		t.Fatalf("equal runway should be feasible")
	}
	if err := ValidateFeasibilityArgs(1, -1, 6); err == nil {
		t.Fatalf("expected error for negative duration")
	}
}

func TestScoreCompetitiveness(t *testing.T) {
	s, err := ScoreCompetitiveness(model.CompetitiveInput{
		TechBarrierStatus:      model.TechMassProduction,
		MarketValidationStatus: model.MarketPartnershipNews,
		TeamStatus:             model.TeamStagnant,
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if s.TechBarrier != 1 || s.MarketValidation != 0.5 || s.Team != 0 || s.Overall != 0.5 {
		t.Fatalf("got %+v", s)
	}

	_, err = ScoreCompetitiveness(model.CompetitiveInput{
		TechBarrierStatus:      "rumours",
		MarketValidationStatus: model.MarketNoEndorsement,
		TeamStatus:             model.TeamStagnant,
	})
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "tech_barrier_status" {
		t.Fatalf("expected tech_barrier_status error, got %v", err)
	}
}

func TestRankBySurvival(t *testing.T) {
	ranked := RankBySurvival(map[string]Assessment{
		"b": {RunwayMonths: 10, SurvivalScore: 0.28},
		"a": {RunwayMonths: 10, SurvivalScore: 0.28},
		"c": {RunwayMonths: 40, SurvivalScore: 1},
		"d": {RunwayMonths: 2, SurvivalScore: 0.06},
	})
	want := []string{"c", "a", "b", "d"}
	for i, n := range want {
		if ranked[i].Name != n {
			t.Fatalf("position %d = %s, want %s", i, ranked[i].Name, n)
		}
	}
}
