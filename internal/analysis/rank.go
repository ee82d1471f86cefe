package analysis

import "sort"

type RankedCompany struct {
	Name string `json:"name"`
	Assessment
}

// RankBySurvival sorts companies by survival score, longest runway first on ties.
func RankBySurvival(byCompany map[string]Assessment) []RankedCompany {
	out := make([]RankedCompany, 0, len(byCompany))
	for name, a := range byCompany {
		out = append(out, RankedCompany{Name: name, Assessment: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SurvivalScore != out[j].SurvivalScore {
			return out[i].SurvivalScore > out[j].SurvivalScore
		}
		if out[i].RunwayMonths != out[j].RunwayMonths {
			return out[i].RunwayMonths > out[j].RunwayMonths
		}
		return out[i].Name < out[j].Name
	})
	return out
}
