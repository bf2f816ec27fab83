package query

import (
	"time"

	"github.com/revisio/revisio-go/internal/domain"
	"github.com/revisio/revisio-go/internal/schedule"
)

// Summary holds the roster tile counts. It is always computed over the
// unfiltered collection, independent of whatever filter is active.
type Summary struct {
	Total          int `json:"total"`
	Planned        int `json:"planned"`
	InOperation    int `json:"in_operation"`
	InRepair       int `json:"in_repair"`
	Decommissioned int `json:"decommissioned"`
	DueIn30Days    int `json:"due_in_30_days"`
	// InspectionsLastWeek counts inspections, not assets.
	InspectionsLastWeek int `json:"inspections_last_week"`
	NewAssetsLastWeek   int `json:"new_assets_last_week"`
}

// Summarize aggregates the tile counts for the whole collection.
func Summarize(assets []domain.Asset, now time.Time) Summary {
	weekAgo := domain.DateOnly(now).AddDate(0, 0, -7)
	s := Summary{Total: len(assets)}
	for _, a := range assets {
		switch a.Status {
		case domain.StatusPlanned:
			s.Planned++
		case domain.StatusInOperation:
			s.InOperation++
		case domain.StatusInRepair:
			s.InRepair++
		case domain.StatusDecommissioned:
			s.Decommissioned++
		}
		if schedule.DueWithinWindow(a.NextInspectionDate, now) {
			s.DueIn30Days++
		}
		for _, insp := range a.Inspections {
			if !domain.DateOnly(insp.Date).Before(weekAgo) {
				s.InspectionsLastWeek++
			}
		}
		if !domain.DateOnly(a.CreatedAt).Before(weekAgo) {
			s.NewAssetsLastWeek++
		}
	}
	return s
}
