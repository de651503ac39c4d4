package services

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gmart/internal/domain"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

const NoResultsMessage = "No products found matching your criteria."

// ParseSortKey maps a query value to a SortKey, falling back to name order.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLow, SortPriceHigh:
		return SortKey(s)
	default:
		return SortName
	}
}

type Listing struct {
	Products  []domain.Product
	Term      string
	Sort      SortKey
	NoResults bool
	Message   string
}

// FilterAndSort keeps products whose name contains term (case-insensitive)
// and orders them by sort. The input slice is not modified.
func FilterAndSort(products []domain.Product, term string, key SortKey) Listing {
	key = ParseSortKey(string(key))
	needle := strings.ToLower(strings.TrimSpace(term))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}

	switch key {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	default:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Name, out[j].Name) < 0 })
	}

	l := Listing{Products: out, Term: strings.TrimSpace(term), Sort: key}
	if len(out) == 0 {
		l.NoResults = true
		l.Message = NoResultsMessage
	}
	return l
}
