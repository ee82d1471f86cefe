package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"runway-agent/internal/model"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named row does not exist.
var ErrNotFound = errors.New("not found")

// Store persists saved companies, the monitoring watchlist and news alerts.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id               INTEGER PRIMARY KEY,
	name             TEXT NOT NULL UNIQUE,
	competitive_data TEXT NOT NULL DEFAULT '{}',
	financial_data   TEXT NOT NULL DEFAULT '{}',
	updated_at       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS watchlist (
	id           INTEGER PRIMARY KEY,
	company_name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS alerts (
	id           INTEGER PRIMARY KEY,
	company_name TEXT NOT NULL,
	alert_text   TEXT NOT NULL,
	source_url   TEXT UNIQUE,
	news_title   TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	is_read      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS alerts_unread ON alerts (is_read, created_at);
`

// createdAtLayout sorts lexicographically in chronological order.
const createdAtLayout = "2006-01-02 15:04:05.000000"

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(createdAtLayout)
}

// --- companies ---

// Company is a saved due-diligence record.
type Company struct {
	Name        string                 `json:"name"`
	Competitive model.CompetitiveInput `json:"competitive"`
	Financial   model.FinancialInput   `json:"financial"`
	UpdatedAt   string                 `json:"updated_at,omitempty"`
}

type companyRow struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	CompetitiveData string `db:"competitive_data"`
	FinancialData   string `db:"financial_data"`
	UpdatedAt       string `db:"updated_at"`
}

// SaveCompany inserts the company or replaces an existing record with the same name.
func (s *Store) SaveCompany(ctx context.Context, c Company) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &model.ValidationError{Field: "name", Reason: "is required"}
	}
	comp, err := json.Marshal(c.Competitive)
	if err != nil {
		return fmt.Errorf("encode competitive data: %w", err)
	}
	fin, err := json.Marshal(c.Financial)
	if err != nil {
		return fmt.Errorf("encode financial data: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO companies (name, competitive_data, financial_data, updated_at)
		VALUES (?, ?, ?, ?)`, name, string(comp), string(fin), s.timestamp())
	if err != nil {
		return fmt.Errorf("save company %q: %w", name, err)
	}
	return nil
}

func (s *Store) CompanyNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names, "SELECT name FROM companies ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return names, nil
}

func (s *Store) LoadCompany(ctx context.Context, name string) (*Company, error) {
	var row companyRow
	err := s.db.GetContext(ctx, &row, "SELECT id, name, competitive_data, financial_data, updated_at FROM companies WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load company %q: %w", name, err)
	}

	c := &Company{Name: row.Name, UpdatedAt: row.UpdatedAt}
	if err := json.Unmarshal([]byte(row.CompetitiveData), &c.Competitive); err != nil {
		return nil, fmt.Errorf("decode competitive data for %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(row.FinancialData), &c.Financial); err != nil {
		return nil, fmt.Errorf("decode financial data for %q: %w", name, err)
	}
	return c, nil
}

// ListCompanies loads every saved company, ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	names, err := s.CompanyNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Company, 0, len(names))
	for _, n := range names {
		c, err := s.LoadCompany(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *Store) DeleteCompany(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM companies WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete company %q: %w", name, err)
	}
	return requireAffected(res, "company", name)
}

// --- watchlist ---

func (s *Store) Watchlist(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names, "SELECT company_name FROM watchlist ORDER BY company_name"); err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return names, nil
}

// AddToWatchlist is idempotent; it reports whether the company was newly added.
func (s *Store) AddToWatchlist(ctx context.Context, company string) (bool, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return false, &model.ValidationError{Field: "company_name", Reason: "is required"}
	}
	res, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO watchlist (company_name) VALUES (?)", company)
	if err != nil {
		return false, fmt.Errorf("add %q to watchlist: %w", company, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) RemoveFromWatchlist(ctx context.Context, company string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM watchlist WHERE company_name = ?", company)
	if err != nil {
		return fmt.Errorf("remove %q from watchlist: %w", company, err)
	}
	return requireAffected(res, "watchlist entry", company)
}

// --- alerts ---

type Alert struct {
	ID          int64  `db:"id" json:"id"`
	CompanyName string `db:"company_name" json:"company_name"`
	AlertText   string `db:"alert_text" json:"alert_text"`
	SourceURL   string `db:"source_url" json:"source_url"`
	NewsTitle   string `db:"news_title" json:"news_title"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	IsRead      bool   `db:"is_read" json:"is_read"`
}

// SaveAlert stores an alert. Alerts are unique by source URL; a duplicate is
// ignored and reported as saved == false.
func (s *Store) SaveAlert(ctx context.Context, a Alert) (saved bool, err error) {
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO alerts (company_name, alert_text, source_url, news_title, created_at)
		VALUES (?, ?, ?, ?, ?)`, a.CompanyName, a.AlertText, a.SourceURL, a.NewsTitle, s.timestamp())
	if err != nil {
		return false, fmt.Errorf("save alert for %q: %w", a.CompanyName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// HasAlertURL reports whether an alert was already stored for url.
func (s *Store) HasAlertURL(ctx context.Context, url string) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM alerts WHERE source_url = ?", url); err != nil {
		return false, fmt.Errorf("check alert url: %w", err)
	}
	return n > 0, nil
}

// UnreadAlerts returns unread alerts, newest first.
func (s *Store) UnreadAlerts(ctx context.Context) ([]Alert, error) {
	alerts := []Alert{}
	err := s.db.SelectContext(ctx, &alerts, `SELECT id, company_name, alert_text, COALESCE(source_url, '') AS source_url,
		news_title, created_at, is_read FROM alerts WHERE is_read = 0 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list unread alerts: %w", err)
	}
	return alerts, nil
}

func (s *Store) MarkAlertRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE alerts SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark alert %d read: %w", id, err)
	}
	return requireAffected(res, "alert", fmt.Sprint(id))
}

func requireAffected(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	return nil
}
