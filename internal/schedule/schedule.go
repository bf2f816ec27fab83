// Package schedule computes inspection due dates, asset status transitions
// and urgency tiers. Everything here is a pure function of its inputs; the
// caller injects "now" so results stay deterministic.
package schedule

import (
	"time"

	"github.com/revisio/revisio-go/internal/domain"
)

// intervalMonths maps (category, usage group) to the inspection interval.
// Usage group A never appears: it carries no periodic obligation. A
// combination missing from the table means no obligation either, so every
// uncovered pair is visible here rather than hidden in branching logic.
var intervalMonths = map[domain.Category]map[domain.UsageGroup]int{
	domain.CategoryHandHeld: {
		domain.UsageGroupB: 6,
		domain.UsageGroupC: 6,
		domain.UsageGroupD: 6,
		domain.UsageGroupE: 12,
	},
	domain.CategoryExtensionCord: {
		domain.UsageGroupB: 6,
		domain.UsageGroupC: 6,
		domain.UsageGroupD: 6,
		domain.UsageGroupE: 24,
	},
	domain.CategoryOther: {
		domain.UsageGroupB: 6,
		domain.UsageGroupC: 12,
		domain.UsageGroupD: 12,
		domain.UsageGroupE: 24,
	},
}

// NextInspectionDate returns the date the next periodic inspection is due,
// or nil when the classification carries no periodic obligation. The result
// is the last inspection date plus the tabulated interval, truncated to a
// calendar date.
func NextInspectionDate(group domain.UsageGroup, category domain.Category, last time.Time) *time.Time {
	if group == domain.UsageGroupA {
		return nil
	}
	months, ok := intervalMonths[category][group]
	if !ok {
		return nil
	}
	due := domain.DateOnly(last).AddDate(0, months, 0)
	return &due
}

// DeriveStatus maps an inspection's overall result to the asset status it
// forces: pass puts the asset back in operation, fail sends it to repair.
func DeriveStatus(overall domain.CheckResult) domain.AssetStatus {
	if overall == domain.ResultPass {
		return domain.StatusInOperation
	}
	return domain.StatusInRepair
}

// dueSoonWindowDays is the look-ahead window for the DueSoon tier.
const dueSoonWindowDays = 30

// ClassifyUrgency buckets a next-inspection date against "now". Both bounds
// of the due-soon window are inclusive: a date equal to today or to today
// plus 30 days is DueSoon. A nil date means the asset has no periodic
// obligation scheduled and stays Planned.
func ClassifyUrgency(next *time.Time, now time.Time) domain.Urgency {
	if next == nil {
		return domain.UrgencyPlanned
	}
	today := domain.DateOnly(now)
	date := domain.DateOnly(*next)
	if date.Before(today) {
		return domain.UrgencyOverdue
	}
	if !date.After(today.AddDate(0, 0, dueSoonWindowDays)) {
		return domain.UrgencyDueSoon
	}
	return domain.UrgencyOk
}

// DueWithinWindow reports whether next falls inside the inclusive
// [now, now+30d] window. It is the tile/summary counterpart of the DueSoon
// tier, computed directly from the date.
func DueWithinWindow(next *time.Time, now time.Time) bool {
	return ClassifyUrgency(next, now) == domain.UrgencyDueSoon
}
