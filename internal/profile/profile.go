package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"runway-agent/internal/model"
)

// ProfileList is the on-disk shape of the profiles file.
type ProfileList struct {
	UpdatedAt string                 `json:"updated_at"` // ISO 8601 timestamp
	Profiles  []model.CompanyProfile `json:"profiles"`
}

// Directory answers company background lookups from a static JSON file.
type Directory struct {
	profiles []model.CompanyProfile
}

// Load reads a profiles file. A missing file yields an empty directory.
func Load(filePath string) (*Directory, error) {
	raw, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return &Directory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var list ProfileList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}
	return New(list.Profiles), nil
}

func New(profiles []model.CompanyProfile) *Directory {
	return &Directory{profiles: append([]model.CompanyProfile(nil), profiles...)}
}

func (d *Directory) Len() int { return len(d.profiles) }

// Lookup finds the profile whose name or alias appears in query, or whose
// registered name contains query. Matching is case-insensitive.
func (d *Directory) Lookup(query string) (*model.CompanyProfile, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}
	for i := range d.profiles {
		p := &d.profiles[i]
		for _, name := range append([]string{p.CompanyName}, p.Aliases...) {
			n := strings.ToLower(strings.TrimSpace(name))
			if n == "" {
				continue
			}
			if strings.Contains(q, n) || strings.Contains(n, q) {
				out := *p
				return &out, true
			}
		}
	}
	return nil, false
}
