package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/revisio/revisio-go/internal/domain"
)

// SortKey selects the roster ordering.
type SortKey string

const (
	SortByName SortKey = "name"
	// SortByNextInspection is the default: ascending by due date, assets
	// without a valid date after all dated assets, name as tie-break.
	SortByNextInspection SortKey = "next_inspection"
)

// Sort returns a sorted copy of assets. The ordering is a strict total
// order: the locale-aware name comparison breaks every tie, so sorting is
// deterministic and idempotent.
func Sort(assets []domain.Asset, key SortKey) []domain.Asset {
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	// Collators buffer internally and are not safe for concurrent use, so
	// each sort gets its own.
	coll := collate.New(language.Und)
	byName := func(i, j int) bool {
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	}
	switch key {
	case SortByName:
		sort.SliceStable(out, byName)
	default:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].NextInspectionDate, out[j].NextInspectionDate
			switch {
			case a != nil && b != nil:
				ad, bd := domain.DateOnly(*a), domain.DateOnly(*b)
				if !ad.Equal(bd) {
					return ad.Before(bd)
				}
				return byName(i, j)
			case a != nil:
				return true
			case b != nil:
				return false
			default:
				return byName(i, j)
			}
		})
	}
	return out
}
