package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFences removes a surrounding ```json ... ``` block.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}

// extractObject trims prose around the outermost {...}.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// DecodeJSON parses model output into out. It tries strict JSON first, then
// json-repair, then Hjson, so minor formatting slips from the model are tolerated.
func DecodeJSON(raw string, out any) error {
	clean := extractObject(StripCodeFences(raw))
	if strings.TrimSpace(clean) == "" {
		return errors.New("empty model response")
	}

	strictErr := json.Unmarshal([]byte(clean), out)
	if strictErr == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(clean); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return nil
		}
	}

	var generic any
	if err := hjson.Unmarshal([]byte(clean), &generic); err == nil {
		b, err := json.Marshal(generic)
		if err == nil {
			if err := json.Unmarshal(b, out); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("decode model json: %w", strictErr)
}
