package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProtectionClass is the electrical protection design class of an asset.
type ProtectionClass string

const (
	ProtectionClassI   ProtectionClass = "I"
	ProtectionClassII  ProtectionClass = "II"
	ProtectionClassIII ProtectionClass = "III"
)

// UsageGroup is the regulatory deployment-context classification (A-E).
// Together with Category it selects the periodic inspection interval;
// group A carries no periodic obligation at all.
type UsageGroup string

const (
	UsageGroupA UsageGroup = "A"
	UsageGroupB UsageGroup = "B"
	UsageGroupC UsageGroup = "C"
	UsageGroupD UsageGroup = "D"
	UsageGroupE UsageGroup = "E"
)

// Category is the physical form factor of an asset.
type Category string

const (
	CategoryHandHeld      Category = "hand_held"
	CategoryOther         Category = "other"
	CategoryExtensionCord Category = "extension_cord"
)

// AssetStatus is the lifecycle status of an asset.
type AssetStatus string

const (
	StatusPlanned        AssetStatus = "planned"
	StatusInOperation    AssetStatus = "in_operation"
	StatusInRepair       AssetStatus = "in_repair"
	StatusDecommissioned AssetStatus = "decommissioned"
)

// InspectionType distinguishes a routine visual/functional check from a
// full measured inspection.
type InspectionType string

const (
	InspectionRoutineCheck   InspectionType = "routine_check"
	InspectionFullInspection InspectionType = "full_inspection"
)

// CheckResult is the outcome of a single check or of the whole inspection.
type CheckResult string

const (
	ResultPass CheckResult = "pass"
	ResultFail CheckResult = "fail"
)

// Urgency summarizes how pressing an asset's next inspection is.
type Urgency string

const (
	UrgencyOk      Urgency = "ok"
	UrgencyDueSoon Urgency = "due_soon"
	UrgencyOverdue Urgency = "overdue"
	UrgencyPlanned Urgency = "planned"
)

// Asset is a piece of electrical equipment subject to periodic inspection.
type Asset struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Type           string    `json:"type" db:"type"`
	Manufacturer   string    `json:"manufacturer" db:"manufacturer"`
	Year           int       `json:"year" db:"year"`
	SerialNumber   string    `json:"serial_number" db:"serial_number"`
	RevisionNumber string    `json:"revision_number" db:"revision_number"`

	ProtectionClass ProtectionClass `json:"protection_class" db:"protection_class"`
	UsageGroup      UsageGroup      `json:"usage_group" db:"usage_group"`
	Category        Category        `json:"category" db:"category"`

	Status             AssetStatus `json:"status" db:"status"`
	NextInspectionDate *time.Time  `json:"next_inspection_date" db:"next_inspection_date"`
	Location           *string     `json:"location" db:"location"`
	Notes              *string     `json:"notes" db:"notes"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`

	Inspections []Inspection `json:"inspections"`
}

// Inspection is a single recorded check or full inspection of an asset.
// Inspections are append-only and live and die with their owning asset.
type Inspection struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	AssetID   uuid.UUID      `json:"asset_id" db:"asset_id"`
	Date      time.Time      `json:"date" db:"date"`
	Inspector string         `json:"inspector" db:"inspector"`
	Type      InspectionType `json:"type" db:"type"`

	VisualCheck    CheckResult `json:"visual_check" db:"visual_check"`
	FunctionalTest CheckResult `json:"functional_test" db:"functional_test"`
	OverallResult  CheckResult `json:"overall_result" db:"overall_result"`

	// Measured quantities. Protective conductor resistance in ohms,
	// insulation resistance in megaohms, leakage current in milliamps.
	ProtectiveConductorResistance *float64 `json:"protective_conductor_resistance" db:"protective_conductor_resistance"`
	InsulationResistance          *float64 `json:"insulation_resistance" db:"insulation_resistance"`
	LeakageCurrent                *float64 `json:"leakage_current" db:"leakage_current"`

	InstrumentName      *string    `json:"measuring_instrument_name" db:"measuring_instrument_name"`
	InstrumentSerial    *string    `json:"measuring_instrument_serial" db:"measuring_instrument_serial"`
	InstrumentCalibDate *time.Time `json:"measuring_instrument_calib_date" db:"measuring_instrument_calib_date"`

	Notes *string `json:"notes" db:"notes"`
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date. Unparsable input yields nil;
// callers treat that as "no valid date" rather than an error.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	d := DateOnly(t)
	return &d
}
