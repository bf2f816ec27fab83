package schedule

import (
	"testing"
	"time"

	"github.com/revisio/revisio-go/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextInspectionDateGroupA(t *testing.T) {
	last := date(2024, 1, 10)
	for _, cat := range []domain.Category{domain.CategoryHandHeld, domain.CategoryOther, domain.CategoryExtensionCord} {
		if got := NextInspectionDate(domain.UsageGroupA, cat, last); got != nil {
			t.Fatalf("group A with category %s: expected nil got %v", cat, got)
		}
	}
}

func TestNextInspectionDateTable(t *testing.T) {
	last := date(2024, 1, 10)
	cases := []struct {
		cat    domain.Category
		group  domain.UsageGroup
		months int
	}{
		{domain.CategoryHandHeld, domain.UsageGroupB, 6},
		{domain.CategoryHandHeld, domain.UsageGroupC, 6},
		{domain.CategoryHandHeld, domain.UsageGroupD, 6},
		{domain.CategoryHandHeld, domain.UsageGroupE, 12},
		{domain.CategoryExtensionCord, domain.UsageGroupB, 6},
		{domain.CategoryExtensionCord, domain.UsageGroupC, 6},
		{domain.CategoryExtensionCord, domain.UsageGroupD, 6},
		{domain.CategoryExtensionCord, domain.UsageGroupE, 24},
		{domain.CategoryOther, domain.UsageGroupB, 6},
		{domain.CategoryOther, domain.UsageGroupC, 12},
		{domain.CategoryOther, domain.UsageGroupD, 12},
		{domain.CategoryOther, domain.UsageGroupE, 24},
	}
	for _, tc := range cases {
		got := NextInspectionDate(tc.group, tc.cat, last)
		if got == nil {
			t.Fatalf("%s/%s: expected date got nil", tc.cat, tc.group)
		}
		want := last.AddDate(0, tc.months, 0)
		if !got.Equal(want) {
			t.Fatalf("%s/%s: expected %v got %v", tc.cat, tc.group, want, *got)
		}
	}
}

func TestNextInspectionDateTruncatesTime(t *testing.T) {
	last := time.Date(2024, 1, 10, 15, 42, 7, 0, time.UTC)
	got := NextInspectionDate(domain.UsageGroupC, domain.CategoryHandHeld, last)
	if got == nil {
		t.Fatal("expected date got nil")
	}
	if !got.Equal(date(2024, 7, 10)) {
		t.Fatalf("expected 2024-07-10 got %v", *got)
	}
}

func TestDeriveStatus(t *testing.T) {
	if got := DeriveStatus(domain.ResultPass); got != domain.StatusInOperation {
		t.Fatalf("pass: expected in_operation got %s", got)
	}
	if got := DeriveStatus(domain.ResultFail); got != domain.StatusInRepair {
		t.Fatalf("fail: expected in_repair got %s", got)
	}
}

func TestClassifyUrgencyBoundaries(t *testing.T) {
	now := date(2024, 7, 5)
	cases := []struct {
		name string
		next *time.Time
		want domain.Urgency
	}{
		{"absent", nil, domain.UrgencyPlanned},
		{"yesterday", ptr(date(2024, 7, 4)), domain.UrgencyOverdue},
		{"today", ptr(date(2024, 7, 5)), domain.UrgencyDueSoon},
		{"exactly 30 days", ptr(date(2024, 8, 4)), domain.UrgencyDueSoon},
		{"31 days", ptr(date(2024, 8, 5)), domain.UrgencyOk},
	}
	for _, tc := range cases {
		if got := ClassifyUrgency(tc.next, now); got != tc.want {
			t.Fatalf("%s: expected %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	// hand-held, group C, last inspection 2024-01-10, pass
	next := NextInspectionDate(domain.UsageGroupC, domain.CategoryHandHeld, date(2024, 1, 10))
	if next == nil || !next.Equal(date(2024, 7, 10)) {
		t.Fatalf("expected 2024-07-10 got %v", next)
	}
	if st := DeriveStatus(domain.ResultPass); st != domain.StatusInOperation {
		t.Fatalf("expected in_operation got %s", st)
	}
	if u := ClassifyUrgency(next, date(2024, 7, 5)); u != domain.UrgencyDueSoon {
		t.Fatalf("expected due_soon got %s", u)
	}
}

func ptr(t time.Time) *time.Time { return &t }
