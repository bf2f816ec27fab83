package assets

import (
	"time"

	"github.com/google/uuid"

	"github.com/revisio/revisio-go/internal/domain"
	"github.com/revisio/revisio-go/internal/query"
)

// AssetRequest carries a full asset record for create and update. Business
// rules (required fields, uniqueness, year bounds) are enforced by the
// record validator, which reports per-field errors; binding only guards the
// enum shapes.
type AssetRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Manufacturer   string `json:"manufacturer"`
	Year           int    `json:"year"`
	SerialNumber   string `json:"serial_number"`
	RevisionNumber string `json:"revision_number"`

	ProtectionClass domain.ProtectionClass `json:"protection_class" binding:"omitempty,oneof=I II III"`
	UsageGroup      domain.UsageGroup      `json:"usage_group" binding:"omitempty,oneof=A B C D E"`
	Category        domain.Category        `json:"category" binding:"omitempty,oneof=hand_held other extension_cord"`
	Status          domain.AssetStatus     `json:"status" binding:"omitempty,oneof=planned in_operation in_repair decommissioned"`

	// Manual due-date override; normally the date is derived from the most
	// recent inspection. Unparsable values degrade to "no date".
	NextInspectionDate *string `json:"next_inspection_date"`

	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

func (r AssetRequest) toDomain(id uuid.UUID, createdAt time.Time) domain.Asset {
	a := domain.Asset{
		ID:              id,
		Name:            r.Name,
		Type:            r.Type,
		Manufacturer:    r.Manufacturer,
		Year:            r.Year,
		SerialNumber:    r.SerialNumber,
		RevisionNumber:  r.RevisionNumber,
		ProtectionClass: r.ProtectionClass,
		UsageGroup:      r.UsageGroup,
		Category:        r.Category,
		Status:          r.Status,
		Location:        r.Location,
		Notes:           r.Notes,
		CreatedAt:       createdAt,
	}
	if a.Status == "" {
		a.Status = domain.StatusPlanned
	}
	if r.NextInspectionDate != nil {
		a.NextInspectionDate = domain.ParseDate(*r.NextInspectionDate)
	}
	return a
}

// InspectionRequest carries a new inspection record. Dates travel as ISO
// calendar dates; unparsable values surface as field errors from the
// validator, never as a hard failure.
type InspectionRequest struct {
	Date      string                `json:"date"`
	Inspector string                `json:"inspector"`
	Type      domain.InspectionType `json:"type" binding:"omitempty,oneof=routine_check full_inspection"`

	VisualCheck    domain.CheckResult `json:"visual_check" binding:"omitempty,oneof=pass fail"`
	FunctionalTest domain.CheckResult `json:"functional_test" binding:"omitempty,oneof=pass fail"`
	OverallResult  domain.CheckResult `json:"overall_result" binding:"omitempty,oneof=pass fail"`

	ProtectiveConductorResistance *float64 `json:"protective_conductor_resistance"`
	InsulationResistance          *float64 `json:"insulation_resistance"`
	LeakageCurrent                *float64 `json:"leakage_current"`

	InstrumentName      *string `json:"measuring_instrument_name"`
	InstrumentSerial    *string `json:"measuring_instrument_serial"`
	InstrumentCalibDate *string `json:"measuring_instrument_calib_date"`

	Notes *string `json:"notes"`
}

func (r InspectionRequest) toDomain(assetID uuid.UUID) domain.Inspection {
	i := domain.Inspection{
		ID:                            uuid.New(),
		AssetID:                       assetID,
		Inspector:                     r.Inspector,
		Type:                          r.Type,
		VisualCheck:                   r.VisualCheck,
		FunctionalTest:                r.FunctionalTest,
		OverallResult:                 r.OverallResult,
		ProtectiveConductorResistance: r.ProtectiveConductorResistance,
		InsulationResistance:          r.InsulationResistance,
		LeakageCurrent:                r.LeakageCurrent,
		InstrumentName:                r.InstrumentName,
		InstrumentSerial:              r.InstrumentSerial,
		Notes:                         r.Notes,
	}
	if d := domain.ParseDate(r.Date); d != nil {
		i.Date = *d
	}
	if r.InstrumentCalibDate != nil {
		i.InstrumentCalibDate = domain.ParseDate(*r.InstrumentCalibDate)
	}
	return i
}

// ListResponse is one page of the roster plus the collection-wide summary.
// The summary always reflects the unfiltered collection.
type ListResponse struct {
	query.Page
	Summary query.Summary `json:"summary"`
}

// Instrument is the measuring-instrument prefill derived from the most
// recent inspection that recorded one.
type Instrument struct {
	Name      string     `json:"measuring_instrument_name"`
	Serial    string     `json:"measuring_instrument_serial"`
	CalibDate *time.Time `json:"measuring_instrument_calib_date"`
}
