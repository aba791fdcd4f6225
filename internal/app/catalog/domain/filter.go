package domain

import "strings"

// AllCategories disables category filtering.
const AllCategories = "All"

// Filter selects catalog products: a case-insensitive substring match on name
// or number, and an exact category.
type Filter struct {
	Search   string
	Category string
}

// Normalized trims the category and folds "All" into no category filter. The
// search term is matched as given, spaces included.
func (f Filter) Normalized() Filter {
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == AllCategories {
		f.Category = ""
	}
	return f
}

// Matches reports whether p passes the filter.
func (f Filter) Matches(p *Product) bool {
	f = f.Normalized()
	if f.Category != "" && p.Category() != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Name()), term) ||
		strings.Contains(strings.ToLower(p.Number()), term)
}
