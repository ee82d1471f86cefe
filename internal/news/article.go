package news

import "strings"

// Article is a search hit from any news source.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// mergeRelevant de-duplicates by URL (first occurrence wins, in source order),
// keeps only articles naming the company in title or description, and caps the
// result at limit.
func mergeRelevant(company string, limit int, sources ...[]Article) []Article {
	seen := map[string]bool{}
	out := []Article{}
	for _, list := range sources {
		for _, a := range list {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			if !mentions(a, company) {
				continue
			}
			out = append(out, a)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func mentions(a Article, company string) bool {
	name := strings.ToLower(strings.TrimSpace(company))
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(a.Title), name) ||
		strings.Contains(strings.ToLower(a.Description), name)
}
