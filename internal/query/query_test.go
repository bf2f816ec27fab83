package query

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/revisio/revisio-go/internal/domain"
)

var now = time.Date(2024, 7, 5, 10, 0, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func asset(name string, mutate ...func(*domain.Asset)) domain.Asset {
	a := domain.Asset{
		ID:             uuid.New(),
		Name:           name,
		Manufacturer:   "Bosch",
		Year:           2020,
		SerialNumber:   "SN-" + name,
		RevisionNumber: "R-" + name,
		Category:       domain.CategoryHandHeld,
		Status:         domain.StatusInOperation,
		CreatedAt:      now.AddDate(-1, 0, 0),
	}
	for _, m := range mutate {
		m(&a)
	}
	return a
}

func names(assets []domain.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Name
	}
	return out
}

func testCollection() []domain.Asset {
	return []domain.Asset{
		asset("drill", func(a *domain.Asset) {
			a.NextInspectionDate = datePtr(2024, 7, 20)
			a.Inspections = []domain.Inspection{{
				Date:          time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
				Type:          domain.InspectionFullInspection,
				OverallResult: domain.ResultPass,
			}}
		}),
		asset("grinder", func(a *domain.Asset) {
			a.Status = domain.StatusInRepair
			a.Manufacturer = "Makita"
			a.NextInspectionDate = datePtr(2024, 6, 1)
			a.Inspections = []domain.Inspection{{
				Date:          time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
				Type:          domain.InspectionRoutineCheck,
				OverallResult: domain.ResultFail,
			}}
		}),
		asset("extension cord", func(a *domain.Asset) {
			a.Status = domain.StatusPlanned
			a.Category = domain.CategoryExtensionCord
			a.CreatedAt = now.AddDate(0, 0, -2)
		}),
	}
}

func TestFilterTileDue30(t *testing.T) {
	got := Apply(testCollection(), Filters{Tile: TileDueIn30Days}, SortByName, now)
	if !reflect.DeepEqual(names(got), []string{"drill"}) {
		t.Fatalf("expected [drill] got %v", names(got))
	}
}

func TestFilterTileRecentWindows(t *testing.T) {
	got := Apply(testCollection(), Filters{Tile: TileInspected7d}, SortByName, now)
	if !reflect.DeepEqual(names(got), []string{"drill"}) {
		t.Fatalf("inspected_7d: expected [drill] got %v", names(got))
	}
	got = Apply(testCollection(), Filters{Tile: TileCreated7d}, SortByName, now)
	if !reflect.DeepEqual(names(got), []string{"extension cord"}) {
		t.Fatalf("created_7d: expected [extension cord] got %v", names(got))
	}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	got := Apply(testCollection(), Filters{Query: "GRIND"}, SortByName, now)
	if !reflect.DeepEqual(names(got), []string{"grinder"}) {
		t.Fatalf("expected [grinder] got %v", names(got))
	}
	// Serial and revision numbers are searched too.
	got = Apply(testCollection(), Filters{Query: "sn-drill"}, SortByName, now)
	if !reflect.DeepEqual(names(got), []string{"drill"}) {
		t.Fatalf("expected [drill] got %v", names(got))
	}
}

func TestFilterAdvanced(t *testing.T) {
	col := testCollection()
	cases := []struct {
		name string
		f    Filters
		want []string
	}{
		{"manufacturer substring", Filters{Manufacturer: "maki"}, []string{"grinder"}},
		{"category exact", Filters{Category: domain.CategoryExtensionCord}, []string{"extension cord"}},
		{"status", Filters{Status: domain.StatusInRepair}, []string{"grinder"}},
		{"inspection type exists", Filters{InspectionType: domain.InspectionRoutineCheck}, []string{"grinder"}},
		{"inspection result exists", Filters{InspectionResult: domain.ResultPass}, []string{"drill"}},
		{"due range", Filters{DueFrom: datePtr(2024, 6, 1), DueTo: datePtr(2024, 6, 30)}, []string{"grinder"}},
	}
	for _, tc := range cases {
		got := Apply(col, tc.f, SortByName, now)
		if !reflect.DeepEqual(names(got), tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, names(got))
		}
	}
}

// Stages are a conjunction, so applying any subset of non-no-op filters
// must equal running the full pipeline with only those stages set.
func TestFilterStagesCommute(t *testing.T) {
	col := testCollection()
	full := Filters{Tile: TileInOperation, Query: "drill", Manufacturer: "bosch"}
	stepwise := Apply(col, Filters{Tile: full.Tile}, SortByName, now)
	stepwise = Apply(stepwise, Filters{Query: full.Query}, SortByName, now)
	stepwise = Apply(stepwise, Filters{Manufacturer: full.Manufacturer}, SortByName, now)
	combined := Apply(col, full, SortByName, now)
	if !reflect.DeepEqual(names(stepwise), names(combined)) {
		t.Fatalf("stepwise %v != combined %v", names(stepwise), names(combined))
	}
}

func TestSortByNextInspectionDate(t *testing.T) {
	col := []domain.Asset{
		asset("zeta"),
		asset("alpha", func(a *domain.Asset) { a.NextInspectionDate = datePtr(2024, 8, 1) }),
		asset("mid", func(a *domain.Asset) { a.NextInspectionDate = datePtr(2024, 7, 10) }),
		asset("beta", func(a *domain.Asset) { a.NextInspectionDate = datePtr(2024, 8, 1) }),
		asset("omega"),
	}
	got := Sort(col, SortByNextInspection)
	want := []string{"mid", "alpha", "beta", "omega", "zeta"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected %v got %v", want, names(got))
	}
	// Idempotence: sorting a sorted sequence changes nothing.
	again := Sort(got, SortByNextInspection)
	if !reflect.DeepEqual(names(again), want) {
		t.Fatalf("sort not idempotent: %v", names(again))
	}
}

func TestPaginateWalkthrough(t *testing.T) {
	col := make([]domain.Asset, 23)
	for i := range col {
		col[i] = asset(fmt.Sprintf("a%02d", i+1))
	}

	p := Paginate(col, 1, 9)
	if p.StartIndex != 1 || p.EndIndex != 9 || p.HasPrevious || !p.HasNext {
		t.Fatalf("page 1: got %+v", p)
	}
	p = Paginate(col, 3, 9)
	if p.StartIndex != 19 || p.EndIndex != 23 || !p.HasPrevious || p.HasNext {
		t.Fatalf("page 3: got %+v", p)
	}
	// Out-of-range pages clamp instead of erroring.
	p = Paginate(col, 99, 9)
	if p.Current != 3 || p.EndIndex != 23 {
		t.Fatalf("page 99: expected clamp to 3 got %+v", p)
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 1, 9)
	if p.Total != 0 || p.StartIndex != 0 || p.EndIndex != 0 || p.HasPrevious || p.HasNext || len(p.Items) != 0 {
		t.Fatalf("empty roster: got %+v", p)
	}
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		total, current int
		want           []string
	}{
		{10, 1, []string{"1", "2", "3", "4", "5", Ellipsis, "10"}},
		{10, 10, []string{"1", Ellipsis, "6", "7", "8", "9", "10"}},
		{10, 5, []string{"1", Ellipsis, "4", "5", "6", Ellipsis, "10"}},
		{7, 3, []string{"1", "2", "3", "4", "5", "6", "7"}},
		{1, 1, nil},
	}
	for _, tc := range cases {
		got := PageWindow(tc.total, tc.current)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("total=%d current=%d: expected %v got %v", tc.total, tc.current, tc.want, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testCollection(), now)
	want := Summary{
		Total:               3,
		Planned:             1,
		InOperation:         1,
		InRepair:            1,
		DueIn30Days:         1,
		InspectionsLastWeek: 1,
		NewAssetsLastWeek:   1,
	}
	if s != want {
		t.Fatalf("expected %+v got %+v", want, s)
	}
}
