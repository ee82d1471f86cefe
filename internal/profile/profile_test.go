package profile

import (
	"path/filepath"
	"testing"

	"runway-agent/internal/model"
)

func TestLookup(t *testing.T) {
	d := New([]model.CompanyProfile{
		{CompanyName: "Beijing Moonshot AI Technology Co., Ltd.", Aliases: []string{"Moonshot AI", "月之暗面"}},
		{CompanyName: "Acme Robotics Inc."},
	})

	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"moonshot ai", "Beijing Moonshot AI Technology Co., Ltd.", true},
		{"tell me about 月之暗面 please", "Beijing Moonshot AI Technology Co., Ltd.", true},
		{"Acme", "Acme Robotics Inc.", true},
		{"Globex", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := d.Lookup(tt.query)
		if ok != tt.ok {
			t.Fatalf("Lookup(%q) ok=%v, want %v", tt.query, ok, tt.ok)
		}
		if ok && got.CompanyName != tt.want {
			t.Fatalf("Lookup(%q) = %q, want %q", tt.query, got.CompanyName, tt.want)
		}
	}
}

func TestLoadBundledProfiles(t *testing.T) {
	d, err := Load(filepath.Join("..", "..", "data", "profiles.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, ok := d.Lookup("Moonshot AI")
	if !ok {
		t.Fatalf("expected bundled Moonshot AI profile")
	}
	if len(p.FundingHistory) == 0 || len(p.PatentInfo) == 0 {
		t.Fatalf("profile incomplete: %+v", p)
	}
}

func TestLoadMissingFile(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || d.Len() != 0 {
		t.Fatalf("got %v, %v", d, err)
	}
}
