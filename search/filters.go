package search

import (
	"slices"

	"github.com/poiesic/vitrine/core"
)

// Filter narrows search results after similarity scoring.
type Filter func(*core.Product) bool

// FilterGender keeps only products in the given department.
func FilterGender(gender core.Gender) Filter {
	return func(p *core.Product) bool {
		return p.Gender == gender
	}
}

// FilterTag keeps only products carrying the given fabric tag.
func FilterTag(tag string) Filter {
	return func(p *core.Product) bool {
		return slices.Contains(p.Tags, tag)
	}
}

// FilterMaxPrice keeps only products at or below the given price.
func FilterMaxPrice(maxPrice float64) Filter {
	return func(p *core.Product) bool {
		return p.Price <= maxPrice
	}
}

// FilterSource keeps only products ingested from the given source.
func FilterSource(source string) Filter {
	return func(p *core.Product) bool {
		return p.Key.Source == source
	}
}

// applyFilters drops results rejected by any filter.
func applyFilters(results []*core.SearchResult, filters []Filter) []*core.SearchResult {
	if len(filters) == 0 {
		return results
	}
	filtered := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		keep := true
		for _, filter := range filters {
			if !filter(result.Product) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
