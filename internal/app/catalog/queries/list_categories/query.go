package list_categories

import (
	"context"
	"sort"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/contracts"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// Query handles the list categories query use case.
type Query struct {
	products contracts.ProductStore
}

// NewQuery creates a new list categories query.
func NewQuery(products contracts.ProductStore) *Query {
	return &Query{
		products: products,
	}
}

// Execute returns the default category plus every category in use, sorted
// and without duplicates.
func (q *Query) Execute(ctx context.Context) ([]string, error) {
	cats, err := q.products.Categories(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{domain.DefaultCategory: true}
	out := []string{domain.DefaultCategory}
	for _, c := range cats {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
