package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioPreset is a named scenario file from the presets directory.
type ScenarioPreset struct {
	// File is the path relative to the presets directory.
	File     string         `json:"file"`
	Scenario ScenarioConfig `json:"scenario"`
}

// ListScenarioPresets loads every *.yaml / *.yml file in dir, sorted by file name.
// A missing directory yields an empty list.
func ListScenarioPresets(dir string) ([]ScenarioPreset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ScenarioPreset{}, nil
		}
		return nil, err
	}

	out := make([]ScenarioPreset, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sc, err := LoadScenarioFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if sc.Name == "" {
			sc.Name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		out = append(out, ScenarioPreset{File: e.Name(), Scenario: sc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out, nil
}

// ResolvePreset returns the scenario stored under name (a file name with or
// without extension) in dir.
func ResolvePreset(dir, name string) (ScenarioConfig, error) {
	clean := filepath.Base(name)
	for _, cand := range []string{clean, clean + ".yaml", clean + ".yml"} {
		p := filepath.Join(dir, cand)
		if _, err := os.Stat(p); err == nil {
			return LoadScenarioFile(p)
		}
	}
	return ScenarioConfig{}, &os.PathError{Op: "open", Path: filepath.Join(dir, clean), Err: os.ErrNotExist}
}
