// Package validate checks candidate asset and inspection records against
// the business rules and the live collection. Each function returns a map
// from field name to a human-readable message; an empty map means the
// record is acceptable. Validation never rejects fields outside its rule
// set and never fails hard: the maps are the only output.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/revisio/revisio-go/internal/domain"
)

const minYear = 1950

// serialExempt is the one serial-number value excluded from uniqueness,
// used for equipment whose plate carries no serial.
const serialExempt = "n/a"

// Asset validates a candidate asset against the existing collection.
// When editing, candidate.ID excludes the asset's own record from the
// uniqueness checks.
func Asset(candidate domain.Asset, existing []domain.Asset, now time.Time) map[string]string {
	errs := map[string]string{}

	name := strings.TrimSpace(candidate.Name)
	switch {
	case name == "":
		errs["name"] = "name is required"
	case len([]rune(name)) < 3:
		errs["name"] = "name must be at least 3 characters"
	}

	rev := strings.ToLower(strings.TrimSpace(candidate.RevisionNumber))
	if rev == "" {
		errs["revision_number"] = "revision number is required"
	} else {
		for _, a := range existing {
			if a.ID == candidate.ID {
				continue
			}
			if strings.ToLower(strings.TrimSpace(a.RevisionNumber)) == rev {
				errs["revision_number"] = "revision number already exists"
				break
			}
		}
	}

	serial := strings.ToLower(strings.TrimSpace(candidate.SerialNumber))
	if serial == "" {
		errs["serial_number"] = "serial number is required"
	} else if serial != serialExempt {
		for _, a := range existing {
			if a.ID == candidate.ID {
				continue
			}
			if strings.ToLower(strings.TrimSpace(a.SerialNumber)) == serial {
				errs["serial_number"] = "serial number already exists"
				break
			}
		}
	}

	if candidate.Year == 0 {
		errs["year"] = "year of manufacture is required"
	} else if candidate.Year < minYear || candidate.Year > now.Year() {
		errs["year"] = fmt.Sprintf("year of manufacture must be between %d and %d", minYear, now.Year())
	}

	return errs
}

// Inspection validates a candidate inspection record. For a full inspection
// the protective conductor and insulation resistances are mandatory, and a
// reading of exactly zero counts as missing; a routine check accepts absent
// readings. Any reading present must be non-negative.
func Inspection(candidate domain.Inspection, now time.Time) map[string]string {
	errs := map[string]string{}

	if candidate.Date.IsZero() {
		errs["date"] = "date is required"
	} else if domain.DateOnly(candidate.Date).After(domain.DateOnly(now)) {
		errs["date"] = "date must not be in the future"
	}

	if len([]rune(strings.TrimSpace(candidate.Inspector))) < 3 {
		errs["inspector"] = "inspector name is required (at least 3 characters)"
	}

	if candidate.Type == domain.InspectionFullInspection {
		requireReading(errs, "protective_conductor_resistance", candidate.ProtectiveConductorResistance)
		requireReading(errs, "insulation_resistance", candidate.InsulationResistance)
	} else {
		optionalReading(errs, "protective_conductor_resistance", candidate.ProtectiveConductorResistance)
		optionalReading(errs, "insulation_resistance", candidate.InsulationResistance)
	}
	optionalReading(errs, "leakage_current", candidate.LeakageCurrent)

	return errs
}

func requireReading(errs map[string]string, field string, v *float64) {
	switch {
	case v == nil || *v == 0:
		errs[field] = "measurement is required for a full inspection"
	case *v < 0:
		errs[field] = "measurement must not be negative"
	}
}

func optionalReading(errs map[string]string, field string, v *float64) {
	if v != nil && *v < 0 {
		errs[field] = "measurement must not be negative"
	}
}
