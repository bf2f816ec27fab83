// Package query derives the visible roster from the full asset collection:
// filter composition, deterministic sorting, pagination windowing and
// summary aggregation. All functions are pure over a collection snapshot
// and an injected "now"; they never mutate their input and never fail.
package query

import (
	"strings"
	"time"

	"github.com/revisio/revisio-go/internal/domain"
	"github.com/revisio/revisio-go/internal/schedule"
)

// Tile is the single active summary-tile filter. The empty value means no
// tile is active.
type Tile string

const (
	TileNone           Tile = ""
	TileTotal          Tile = "total"
	TilePlanned        Tile = "planned"
	TileInOperation    Tile = "in_operation"
	TileInRepair       Tile = "in_repair"
	TileDecommissioned Tile = "decommissioned"
	TileDueIn30Days    Tile = "due_30"
	TileInspected7d    Tile = "inspected_7d"
	TileCreated7d      Tile = "created_7d"
)

// Filters holds every roster filter parameter. Zero values are no-ops, so
// an empty Filters passes the whole collection through.
type Filters struct {
	Tile   Tile
	Query  string
	Status domain.AssetStatus

	Manufacturer     string
	Type             string
	Year             int
	Location         string
	Category         domain.Category
	InspectionType   domain.InspectionType
	InspectionResult domain.CheckResult
	DueFrom          *time.Time
	DueTo            *time.Time
}

// Apply runs the filter pipeline and sorts the result. Stages apply as a
// conjunction in a fixed order: summary tile, free-text search, status,
// then the advanced filters. The input slice is left untouched.
func Apply(assets []domain.Asset, f Filters, key SortKey, now time.Time) []domain.Asset {
	out := filterTile(assets, f.Tile, now)
	out = filterSearch(out, f.Query)
	out = filterStatus(out, f.Status)
	out = filterAdvanced(out, f)
	return Sort(out, key)
}

func filterTile(assets []domain.Asset, tile Tile, now time.Time) []domain.Asset {
	if tile == TileNone || tile == TileTotal {
		return assets
	}
	weekAgo := domain.DateOnly(now).AddDate(0, 0, -7)
	return keep(assets, func(a domain.Asset) bool {
		switch tile {
		case TilePlanned:
			return a.Status == domain.StatusPlanned
		case TileInOperation:
			return a.Status == domain.StatusInOperation
		case TileInRepair:
			return a.Status == domain.StatusInRepair
		case TileDecommissioned:
			return a.Status == domain.StatusDecommissioned
		case TileDueIn30Days:
			return schedule.DueWithinWindow(a.NextInspectionDate, now)
		case TileInspected7d:
			for _, insp := range a.Inspections {
				if !domain.DateOnly(insp.Date).Before(weekAgo) {
					return true
				}
			}
			return false
		case TileCreated7d:
			return !domain.DateOnly(a.CreatedAt).Before(weekAgo)
		}
		return true
	})
}

func filterSearch(assets []domain.Asset, q string) []domain.Asset {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return assets
	}
	return keep(assets, func(a domain.Asset) bool {
		return strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.SerialNumber), q) ||
			strings.Contains(strings.ToLower(a.RevisionNumber), q)
	})
}

func filterStatus(assets []domain.Asset, status domain.AssetStatus) []domain.Asset {
	if status == "" {
		return assets
	}
	return keep(assets, func(a domain.Asset) bool { return a.Status == status })
}

func filterAdvanced(assets []domain.Asset, f Filters) []domain.Asset {
	if f.Manufacturer != "" {
		assets = keep(assets, func(a domain.Asset) bool {
			return containsFold(a.Manufacturer, f.Manufacturer)
		})
	}
	if f.Type != "" {
		assets = keep(assets, func(a domain.Asset) bool {
			return containsFold(a.Type, f.Type)
		})
	}
	if f.Year != 0 {
		assets = keep(assets, func(a domain.Asset) bool { return a.Year == f.Year })
	}
	if f.Location != "" {
		assets = keep(assets, func(a domain.Asset) bool {
			return a.Location != nil && containsFold(*a.Location, f.Location)
		})
	}
	if f.Category != "" {
		assets = keep(assets, func(a domain.Asset) bool { return a.Category == f.Category })
	}
	if f.DueFrom != nil {
		assets = keep(assets, func(a domain.Asset) bool {
			return a.NextInspectionDate != nil && !domain.DateOnly(*a.NextInspectionDate).Before(domain.DateOnly(*f.DueFrom))
		})
	}
	if f.DueTo != nil {
		assets = keep(assets, func(a domain.Asset) bool {
			return a.NextInspectionDate != nil && !domain.DateOnly(*a.NextInspectionDate).After(domain.DateOnly(*f.DueTo))
		})
	}
	// Type and result filters match when any inspection on the asset
	// satisfies the predicate, not just the most recent one.
	if f.InspectionType != "" {
		assets = keep(assets, func(a domain.Asset) bool {
			for _, insp := range a.Inspections {
				if insp.Type == f.InspectionType {
					return true
				}
			}
			return false
		})
	}
	if f.InspectionResult != "" {
		assets = keep(assets, func(a domain.Asset) bool {
			for _, insp := range a.Inspections {
				if insp.OverallResult == f.InspectionResult {
					return true
				}
			}
			return false
		})
	}
	return assets
}

func keep(assets []domain.Asset, pred func(domain.Asset) bool) []domain.Asset {
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}
