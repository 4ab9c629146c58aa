package catalog

import "strings"

// MaxSuggestions caps the autocomplete list.
const MaxSuggestions = 5

// Suggest returns up to MaxSuggestions technologies whose name starts with
// query, in name order. An empty query yields no suggestions.
func (c *Catalog) Suggest(query string) []Technology {
	q := normalizeQuery(query)
	if q == "" {
		return nil
	}

	var out []Technology
	for _, t := range c.SortedByName() {
		if !strings.HasPrefix(strings.ToLower(t.Name), q) {
			continue
		}
		out = append(out, t)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// Search returns every technology whose name starts with query, sorted by
// name. An empty query returns the whole catalog.
func (c *Catalog) Search(query string) []Technology {
	q := normalizeQuery(query)
	if q == "" {
		return c.SortedByName()
	}

	var out []Technology
	for _, t := range c.items {
		if strings.HasPrefix(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return SortByName(out)
}

// SearchLegacy also prefix-matches description, trivia and tags.
//
// Deprecated: an earlier front end matched these fields; name-prefix Search
// is the supported contract. Kept for the API's legacy flag.
func (c *Catalog) SearchLegacy(query string) []Technology {
	q := normalizeQuery(query)
	if q == "" {
		return c.SortedByName()
	}

	var out []Technology
	for _, t := range c.items {
		if legacyMatch(t, q) {
			out = append(out, t)
		}
	}
	return SortByName(out)
}

func legacyMatch(t Technology, q string) bool {
	fields := []string{t.Name, t.Description, t.Trivia}
	fields = append(fields, t.Tags...)
	for _, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
