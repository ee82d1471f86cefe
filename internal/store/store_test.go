package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"runway-agent/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCompanyRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	c := Company{
		Name: "Acme Robotics",
		Competitive: model.CompetitiveInput{
			TechBarrierStatus:      model.TechPatentOrPaper,
			MarketValidationStatus: model.MarketPrepaidContract,
			TeamStatus:             model.TeamStarCore,
		},
		Financial: model.FinancialInput{
			InitialCash: 200, MonthlyBurn: 30, MonthsToProject: 36,
			B2BContracts: []model.B2BContract{{ContractName: "pilot", Value: 120, SignDate: "2025-01-01", DecayFactor: 0.95}},
		},
	}
	if err := s.SaveCompany(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}
	c.Financial.MonthlyBurn = 25
	if err := s.SaveCompany(ctx, c); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.SaveCompany(ctx, Company{Name: "Beta Labs"}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	names, err := s.CompanyNames(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "Acme Robotics" {
		t.Fatalf("names = %v", names)
	}

	got, err := s.LoadCompany(ctx, "Acme Robotics")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Financial.MonthlyBurn != 25 || len(got.Financial.B2BContracts) != 1 || got.Competitive.TeamStatus != model.TeamStarCore {
		t.Fatalf("loaded = %+v", got)
	}

	if err := s.DeleteCompany(ctx, "Acme Robotics"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.LoadCompany(ctx, "Acme Robotics"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteCompany(ctx, "Acme Robotics"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestWatchlistIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	added, err := s.AddToWatchlist(ctx, "Zeta")
	if err != nil || !added {
		t.Fatalf("add = %v, %v", added, err)
	}
	added, err = s.AddToWatchlist(ctx, "Zeta")
	if err != nil || added {
		t.Fatalf("second add = %v, %v", added, err)
	}
	if _, err := s.AddToWatchlist(ctx, "Alpha"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddToWatchlist(ctx, "  "); !model.IsInputError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	list, err := s.Watchlist(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0] != "Alpha" || list[1] != "Zeta" {
		t.Fatalf("list = %v", list)
	}

	if err := s.RemoveFromWatchlist(ctx, "Zeta"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveFromWatchlist(ctx, "Zeta"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlerts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	clock := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, a := range []Alert{
		{CompanyName: "Acme", AlertText: "first", SourceURL: "https://news/1", NewsTitle: "one"},
		{CompanyName: "Acme", AlertText: "second", SourceURL: "https://news/2", NewsTitle: "two"},
	} {
		saved, err := s.SaveAlert(ctx, a)
		if err != nil || !saved {
			t.Fatalf("save = %v, %v", saved, err)
		}
	}
	saved, err := s.SaveAlert(ctx, Alert{CompanyName: "Acme", AlertText: "dup", SourceURL: "https://news/1"})
	if err != nil || saved {
		t.Fatalf("duplicate save = %v, %v", saved, err)
	}

	known, err := s.HasAlertURL(ctx, "https://news/2")
	if err != nil || !known {
		t.Fatalf("HasAlertURL = %v, %v", known, err)
	}

	unread, err := s.UnreadAlerts(ctx)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 2 || unread[0].AlertText != "second" {
		t.Fatalf("unread = %+v", unread)
	}

	if err := s.MarkAlertRead(ctx, unread[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, err = s.UnreadAlerts(ctx)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 1 || unread[0].AlertText != "first" {
		t.Fatalf("unread after mark = %+v", unread)
	}
	if err := s.MarkAlertRead(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
