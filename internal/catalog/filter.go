// Package catalog implements the in-memory product listing pipeline: filter
// by category, free-text search, and price range, then an optional sort.
// The input slice is never mutated.
package catalog

import (
	"sort"
	"strings"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
)

type Sort string

const (
	SortNone      Sort = ""
	SortPriceAsc  Sort = "price-low"
	SortPriceDesc Sort = "price-high"
	SortName      Sort = "name"
	SortRating    Sort = "rating"
)

// Query holds the listing parameters. Nil price bounds mean unbounded on that
// side; the range is inclusive.
type Query struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     Sort
}

// Apply filters and sorts products according to q and returns a fresh slice.
func Apply(products []domain.Product, q Query) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Search != "" && !matchesSearch(p, q.Search) {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortName:
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortRating:
		sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}

	return out
}

func matchesSearch(p domain.Product, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), t) ||
		strings.Contains(strings.ToLower(p.Description), t) ||
		strings.Contains(strings.ToLower(p.Category), t)
}
