package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Zombie-01/tire/internal/domain"
)

type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortName       SortKey = "name"
)

// DefaultPriceCeiling is the inclusive upper bound applied when a criteria
// carries no explicit maximum.
const DefaultPriceCeiling = 1_000_000

// Criteria narrows and orders a product list. Zero-valued optional fields
// match everything; predicates are combined with logical AND.
type Criteria struct {
	BrandID   string
	Size      string
	Condition domain.Condition
	PriceMin  int64
	PriceMax  int64
	Sort      SortKey
}

// Product names are Mongolian; plain byte comparison orders them wrong.
var nameCollator = collate.New(language.Mongolian)

// Apply returns the filtered, sorted subsequence to render. The input slice
// is never mutated. Ties keep their relative input order.
func Apply(products []domain.Product, c Criteria) []domain.Product {
	max := c.PriceMax
	if max == 0 {
		max = DefaultPriceCeiling
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if c.BrandID != "" && p.BrandID != c.BrandID {
			continue
		}
		if c.Size != "" && p.Size != c.Size {
			continue
		}
		if c.Condition != "" && p.Condition != c.Condition {
			continue
		}
		if p.Price < c.PriceMin || p.Price > max {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, less(filtered, c.Sort))
	return filtered
}

func less(products []domain.Product, key SortKey) func(i, j int) bool {
	switch key {
	case SortPriceLow:
		return func(i, j int) bool { return products[i].Price < products[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return products[i].Price > products[j].Price }
	case SortName:
		return func(i, j int) bool {
			return nameCollator.CompareString(products[i].Name, products[j].Name) < 0
		}
	default: // popularity, descending
		return func(i, j int) bool { return products[i].Popularity > products[j].Popularity }
	}
}
