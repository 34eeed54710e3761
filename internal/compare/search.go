package compare

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type featSource []Feat

func (s featSource) String(i int) string {
	return s[i].Name + " " + string(s[i].Category)
}

func (s featSource) Len() int { return len(s) }

// Search fuzzy-matches query against feat names and categories, best match
// first. An empty query returns the whole catalog.
func (e *Engine) Search(query string) []Feat {
	catalog := e.Catalog()
	query = strings.TrimSpace(query)
	if query == "" {
		return catalog
	}

	matches := fuzzy.FindFrom(query, featSource(catalog))
	out := make([]Feat, 0, len(matches))
	for _, m := range matches {
		out = append(out, catalog[m.Index])
	}
	return out
}
