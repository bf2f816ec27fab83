package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	app "github.com/revisio/revisio-go/cmd/api/app"
	"github.com/revisio/revisio-go/internal/domain"
	"github.com/revisio/revisio-go/internal/schedule"
	"github.com/revisio/revisio-go/internal/validate"
)

// ErrNotFound is returned when an asset id does not exist in the collection.
var ErrNotFound = errors.New("asset not found")

const snapshotKey = "assets:snapshot"

// Service owns reads and writes of the asset collection. Reads go through a
// Redis snapshot cache so the filter pipeline always sees one consistent
// collection; every write invalidates the snapshot.
type Service struct {
	db  app.DB
	rdb *redis.Client
	ttl time.Duration
	pol *bluemonday.Policy
	now func() time.Time
}

// NewService constructs a Service. rdb may be nil to disable caching.
func NewService(db app.DB, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{
		db:  db,
		rdb: rdb,
		ttl: ttl,
		pol: bluemonday.StrictPolicy(),
		now: time.Now,
	}
}

// WithClock overrides the service clock; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Collection returns the full asset collection with inspections attached,
// served from the snapshot cache when fresh.
func (s *Service) Collection(ctx context.Context) ([]domain.Asset, error) {
	if snap, ok := s.cachedSnapshot(ctx); ok {
		return snap, nil
	}
	assets, err := s.loadCollection(ctx)
	if err != nil {
		return nil, err
	}
	s.storeSnapshot(ctx, assets)
	return assets, nil
}

func (s *Service) cachedSnapshot(ctx context.Context) ([]domain.Asset, bool) {
	if s.rdb == nil {
		return nil, false
	}
	b, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	var assets []domain.Asset
	if err := json.Unmarshal(b, &assets); err != nil {
		return nil, false
	}
	return assets, true
}

func (s *Service) storeSnapshot(ctx context.Context, assets []domain.Asset) {
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(assets)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, snapshotKey, b, s.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("snapshot cache set")
	}
}

// Invalidate drops the cached snapshot. Called after every committed write.
func (s *Service) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, snapshotKey).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("snapshot cache del")
	}
}

func (s *Service) loadCollection(ctx context.Context) ([]domain.Asset, error) {
	rows, err := s.db.Query(ctx, `
		select id, name, type, manufacturer, year, serial_number, revision_number,
		       protection_class, usage_group, category, status,
		       next_inspection_date, location, notes, created_at
		from assets`)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	defer rows.Close()

	byID := map[uuid.UUID]int{}
	assets := []domain.Asset{}
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Type, &a.Manufacturer, &a.Year, &a.SerialNumber, &a.RevisionNumber,
			&a.ProtectionClass, &a.UsageGroup, &a.Category, &a.Status,
			&a.NextInspectionDate, &a.Location, &a.Notes, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.Inspections = []domain.Inspection{}
		byID[a.ID] = len(assets)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	irows, err := s.db.Query(ctx, `
		select id, asset_id, date, inspector, type, visual_check, functional_test, overall_result,
		       protective_conductor_resistance, insulation_resistance, leakage_current,
		       measuring_instrument_name, measuring_instrument_serial, measuring_instrument_calib_date, notes
		from inspections order by date`)
	if err != nil {
		return nil, fmt.Errorf("load inspections: %w", err)
	}
	defer irows.Close()
	for irows.Next() {
		var i domain.Inspection
		if err := irows.Scan(
			&i.ID, &i.AssetID, &i.Date, &i.Inspector, &i.Type, &i.VisualCheck, &i.FunctionalTest, &i.OverallResult,
			&i.ProtectiveConductorResistance, &i.InsulationResistance, &i.LeakageCurrent,
			&i.InstrumentName, &i.InstrumentSerial, &i.InstrumentCalibDate, &i.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan inspection: %w", err)
		}
		if idx, ok := byID[i.AssetID]; ok {
			assets[idx].Inspections = append(assets[idx].Inspections, i)
		}
	}
	if err := irows.Err(); err != nil {
		return nil, fmt.Errorf("load inspections: %w", err)
	}
	return assets, nil
}

// CreateAsset validates and inserts a new asset. A non-empty field-error
// map means the record was refused; the error return covers I/O only.
func (s *Service) CreateAsset(ctx context.Context, req AssetRequest) (*domain.Asset, map[string]string, error) {
	existing, err := s.Collection(ctx)
	if err != nil {
		return nil, nil, err
	}
	candidate := s.sanitizeAsset(req.toDomain(uuid.New(), s.now()))
	if errs := validate.Asset(candidate, existing, s.now()); len(errs) > 0 {
		return nil, errs, nil
	}
	_, err = s.db.Exec(ctx, `
		insert into assets (id, name, type, manufacturer, year, serial_number, revision_number,
		                    protection_class, usage_group, category, status,
		                    next_inspection_date, location, notes, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		candidate.ID, candidate.Name, candidate.Type, candidate.Manufacturer, candidate.Year,
		candidate.SerialNumber, candidate.RevisionNumber, candidate.ProtectionClass,
		candidate.UsageGroup, candidate.Category, candidate.Status,
		candidate.NextInspectionDate, candidate.Location, candidate.Notes, candidate.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert asset: %w", err)
	}
	s.Invalidate(ctx)
	candidate.Inspections = []domain.Inspection{}
	return &candidate, nil, nil
}

// UpdateAsset validates and replaces an existing asset record. The asset's
// identity, creation time and inspection history are preserved.
func (s *Service) UpdateAsset(ctx context.Context, id uuid.UUID, req AssetRequest) (*domain.Asset, map[string]string, error) {
	existing, err := s.Collection(ctx)
	if err != nil {
		return nil, nil, err
	}
	var current *domain.Asset
	for i := range existing {
		if existing[i].ID == id {
			current = &existing[i]
			break
		}
	}
	if current == nil {
		return nil, nil, ErrNotFound
	}
	candidate := s.sanitizeAsset(req.toDomain(id, current.CreatedAt))
	if errs := validate.Asset(candidate, existing, s.now()); len(errs) > 0 {
		return nil, errs, nil
	}
	_, err = s.db.Exec(ctx, `
		update assets set name=$2, type=$3, manufacturer=$4, year=$5, serial_number=$6,
		       revision_number=$7, protection_class=$8, usage_group=$9, category=$10,
		       status=$11, next_inspection_date=$12, location=$13, notes=$14
		where id=$1`,
		id, candidate.Name, candidate.Type, candidate.Manufacturer, candidate.Year,
		candidate.SerialNumber, candidate.RevisionNumber, candidate.ProtectionClass,
		candidate.UsageGroup, candidate.Category, candidate.Status,
		candidate.NextInspectionDate, candidate.Location, candidate.Notes)
	if err != nil {
		return nil, nil, fmt.Errorf("update asset: %w", err)
	}
	s.Invalidate(ctx)
	candidate.Inspections = current.Inspections
	return &candidate, nil, nil
}

// DeleteAsset removes an asset and, transactionally, its inspections.
func (s *Service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `delete from inspections where asset_id=$1`, id); err != nil {
		return fmt.Errorf("delete inspections: %w", err)
	}
	tag, err := tx.Exec(ctx, `delete from assets where id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.Invalidate(ctx)
	return nil
}

// AddInspection validates and appends an inspection, recomputing the owning
// asset's next due date and status inside the same transaction.
func (s *Service) AddInspection(ctx context.Context, assetID uuid.UUID, req InspectionRequest) (*domain.Inspection, map[string]string, error) {
	collection, err := s.Collection(ctx)
	if err != nil {
		return nil, nil, err
	}
	var asset *domain.Asset
	for i := range collection {
		if collection[i].ID == assetID {
			asset = &collection[i]
			break
		}
	}
	if asset == nil {
		return nil, nil, ErrNotFound
	}

	candidate := s.sanitizeInspection(req.toDomain(assetID))
	if errs := validate.Inspection(candidate, s.now()); len(errs) > 0 {
		return nil, errs, nil
	}

	next := schedule.NextInspectionDate(asset.UsageGroup, asset.Category, candidate.Date)
	status := schedule.DeriveStatus(candidate.OverallResult)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `
		insert into inspections (id, asset_id, date, inspector, type, visual_check, functional_test,
		        overall_result, protective_conductor_resistance, insulation_resistance, leakage_current,
		        measuring_instrument_name, measuring_instrument_serial, measuring_instrument_calib_date, notes)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		candidate.ID, candidate.AssetID, candidate.Date, candidate.Inspector, candidate.Type,
		candidate.VisualCheck, candidate.FunctionalTest, candidate.OverallResult,
		candidate.ProtectiveConductorResistance, candidate.InsulationResistance, candidate.LeakageCurrent,
		candidate.InstrumentName, candidate.InstrumentSerial, candidate.InstrumentCalibDate, candidate.Notes,
	); err != nil {
		return nil, nil, fmt.Errorf("insert inspection: %w", err)
	}
	if _, err := tx.Exec(ctx, `update assets set next_inspection_date=$2, status=$3 where id=$1`,
		assetID, next, status); err != nil {
		return nil, nil, fmt.Errorf("update asset schedule: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	s.Invalidate(ctx)
	return &candidate, nil, nil
}

// ReplaceAll swaps the whole collection for an imported one.
func (s *Service) ReplaceAll(ctx context.Context, assets []domain.Asset) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `delete from inspections`); err != nil {
		return fmt.Errorf("clear inspections: %w", err)
	}
	if _, err := tx.Exec(ctx, `delete from assets`); err != nil {
		return fmt.Errorf("clear assets: %w", err)
	}
	for _, a := range assets {
		if _, err := tx.Exec(ctx, `
			insert into assets (id, name, type, manufacturer, year, serial_number, revision_number,
			                    protection_class, usage_group, category, status,
			                    next_inspection_date, location, notes, created_at)
			values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			a.ID, a.Name, a.Type, a.Manufacturer, a.Year, a.SerialNumber, a.RevisionNumber,
			a.ProtectionClass, a.UsageGroup, a.Category, a.Status,
			a.NextInspectionDate, a.Location, a.Notes, a.CreatedAt); err != nil {
			return fmt.Errorf("import asset %s: %w", a.ID, err)
		}
		for _, i := range a.Inspections {
			if _, err := tx.Exec(ctx, `
				insert into inspections (id, asset_id, date, inspector, type, visual_check, functional_test,
				        overall_result, protective_conductor_resistance, insulation_resistance, leakage_current,
				        measuring_instrument_name, measuring_instrument_serial, measuring_instrument_calib_date, notes)
				values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
				i.ID, a.ID, i.Date, i.Inspector, i.Type, i.VisualCheck, i.FunctionalTest, i.OverallResult,
				i.ProtectiveConductorResistance, i.InsulationResistance, i.LeakageCurrent,
				i.InstrumentName, i.InstrumentSerial, i.InstrumentCalibDate, i.Notes); err != nil {
				return fmt.Errorf("import inspection %s: %w", i.ID, err)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.Invalidate(ctx)
	return nil
}

// LastInstrument returns the measuring instrument recorded on the most
// recent inspection, for prefilling the next inspection form.
func (s *Service) LastInstrument(ctx context.Context) (*Instrument, error) {
	row := s.db.QueryRow(ctx, `
		select measuring_instrument_name, coalesce(measuring_instrument_serial, ''), measuring_instrument_calib_date
		from inspections
		where measuring_instrument_name is not null and measuring_instrument_name <> ''
		order by date desc limit 1`)
	var in Instrument
	if err := row.Scan(&in.Name, &in.Serial, &in.CalibDate); err != nil {
		return nil, nil // no instrument recorded yet
	}
	return &in, nil
}

func (s *Service) sanitizeAsset(a domain.Asset) domain.Asset {
	a.Name = s.clean(a.Name)
	a.Type = s.clean(a.Type)
	a.Manufacturer = s.clean(a.Manufacturer)
	a.SerialNumber = s.clean(a.SerialNumber)
	a.RevisionNumber = s.clean(a.RevisionNumber)
	a.Location = s.cleanPtr(a.Location)
	a.Notes = s.cleanPtr(a.Notes)
	return a
}

func (s *Service) sanitizeInspection(i domain.Inspection) domain.Inspection {
	i.Inspector = s.clean(i.Inspector)
	i.InstrumentName = s.cleanPtr(i.InstrumentName)
	i.InstrumentSerial = s.cleanPtr(i.InstrumentSerial)
	i.Notes = s.cleanPtr(i.Notes)
	return i
}

func (s *Service) clean(v string) string {
	return strings.TrimSpace(s.pol.Sanitize(v))
}

func (s *Service) cleanPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := s.clean(*v)
	return &c
}
