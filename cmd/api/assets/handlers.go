package assets

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/revisio/revisio-go/cmd/api/app"
	"github.com/revisio/revisio-go/cmd/api/events"
	"github.com/revisio/revisio-go/cmd/api/settings"
	"github.com/revisio/revisio-go/internal/domain"
	"github.com/revisio/revisio-go/internal/query"
)

// Store is the collection access the handlers depend on; *Service is the
// production implementation.
type Store interface {
	Collection(ctx context.Context) ([]domain.Asset, error)
	CreateAsset(ctx context.Context, req AssetRequest) (*domain.Asset, map[string]string, error)
	UpdateAsset(ctx context.Context, id uuid.UUID, req AssetRequest) (*domain.Asset, map[string]string, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	AddInspection(ctx context.Context, assetID uuid.UUID, req InspectionRequest) (*domain.Inspection, map[string]string, error)
	ReplaceAll(ctx context.Context, assets []domain.Asset) error
	LastInstrument(ctx context.Context) (*Instrument, error)
}

const defaultPerPage = 10

// List handles GET /api/assets: the filter pipeline over the collection
// snapshot, paginated, with the collection-wide summary attached.
func List(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, err := st.Collection(c.Request.Context())
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		now := time.Now()
		filters := FiltersFromQuery(c)
		key := query.SortKey(c.Query("sort"))
		if key != query.SortByName {
			key = query.SortByNextInspection
		}
		page := intQuery(c, "page", 1)
		perPage := intQuery(c, "per_page", defaultPerPage)

		visible := query.Apply(collection, filters, key, now)
		resp := ListResponse{
			Page:    query.Paginate(visible, page, perPage),
			Summary: query.Summarize(collection, now),
		}
		c.JSON(http.StatusOK, resp)
	}
}

// FiltersFromQuery reads the roster filter parameters from the request.
// Exports reuse it so a download matches the view the caller had open.
func FiltersFromQuery(c *gin.Context) query.Filters {
	f := query.Filters{
		Tile:             query.Tile(c.Query("tile")),
		Query:            c.Query("q"),
		Status:           domain.AssetStatus(c.Query("status")),
		Manufacturer:     c.Query("manufacturer"),
		Type:             c.Query("type"),
		Location:         c.Query("location"),
		Category:         domain.Category(c.Query("category")),
		InspectionType:   domain.InspectionType(c.Query("inspection_type")),
		InspectionResult: domain.CheckResult(c.Query("inspection_result")),
		DueFrom:          domain.ParseDate(c.Query("due_from")),
		DueTo:            domain.ParseDate(c.Query("due_to")),
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil {
		f.Year = y
	}
	return f
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// Get handles GET /api/assets/:id.
func Get(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		asset, ok := findByID(c, st)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, asset)
	}
}

// Create handles POST /api/assets. Validation failures come back as a 422
// with per-field messages; the record is never partially applied.
func Create(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", err.Error(), app.BindingErrors(err))
			return
		}
		asset, fieldErrs, err := st.CreateAsset(c.Request.Context(), req)
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		if len(fieldErrs) > 0 {
			app.AbortError(c, http.StatusUnprocessableEntity, "validation_failed", "asset record is invalid", fieldErrs)
			return
		}
		events.Publish(c.Request.Context(), a.Q, events.Event{Type: events.TypeAssetCreated, Data: asset})
		c.JSON(http.StatusCreated, asset)
	}
}

// Update handles PUT /api/assets/:id with a full replacement record.
func Update(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", "invalid asset id", nil)
			return
		}
		var req AssetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", err.Error(), app.BindingErrors(err))
			return
		}
		asset, fieldErrs, err := st.UpdateAsset(c.Request.Context(), id, req)
		if errors.Is(err, ErrNotFound) {
			app.AbortError(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		if len(fieldErrs) > 0 {
			app.AbortError(c, http.StatusUnprocessableEntity, "validation_failed", "asset record is invalid", fieldErrs)
			return
		}
		events.Publish(c.Request.Context(), a.Q, events.Event{Type: events.TypeAssetUpdated, Data: asset})
		c.JSON(http.StatusOK, asset)
	}
}

// Delete handles DELETE /api/assets/:id.
func Delete(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", "invalid asset id", nil)
			return
		}
		err = st.DeleteAsset(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			app.AbortError(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		events.Publish(c.Request.Context(), a.Q, events.Event{Type: events.TypeAssetDeleted, Data: gin.H{"id": id}})
		c.Status(http.StatusNoContent)
	}
}

// AddInspection handles POST /api/assets/:id/inspections. A committed
// inspection also moves the asset's next due date and status.
func AddInspection(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", "invalid asset id", nil)
			return
		}
		var req InspectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", err.Error(), app.BindingErrors(err))
			return
		}
		insp, fieldErrs, err := st.AddInspection(c.Request.Context(), id, req)
		if errors.Is(err, ErrNotFound) {
			app.AbortError(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		if len(fieldErrs) > 0 {
			app.AbortError(c, http.StatusUnprocessableEntity, "validation_failed", "inspection record is invalid", fieldErrs)
			return
		}
		events.Publish(c.Request.Context(), a.Q, events.Event{Type: events.TypeInspectionAdded, Data: insp})
		c.JSON(http.StatusCreated, insp)
	}
}

// Scan handles GET /api/assets/scan/:code: exact revision-number lookup
// for barcode and QR scans. The code is matched after trimming, never
// fuzzily.
func Scan(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			app.AbortError(c, http.StatusBadRequest, "bad_request", "empty scan code", nil)
			return
		}
		collection, err := st.Collection(c.Request.Context())
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		for i := range collection {
			if strings.TrimSpace(collection[i].RevisionNumber) == code {
				c.JSON(http.StatusOK, collection[i])
				return
			}
		}
		app.AbortError(c, http.StatusNotFound, "not_found", "no asset with that revision number", nil)
	}
}

// CardResponse is the printable inspection-card payload: the asset, its
// history newest first, and the operator block for the card header.
type CardResponse struct {
	Asset       domain.Asset        `json:"asset"`
	Inspections []domain.Inspection `json:"inspections"`
	Operator    *settings.Operator  `json:"operator,omitempty"`
}

// Card handles GET /api/assets/:id/card.
func Card(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		asset, ok := findByID(c, st)
		if !ok {
			return
		}
		history := make([]domain.Inspection, len(asset.Inspections))
		copy(history, asset.Inspections)
		sort.SliceStable(history, func(i, j int) bool { return history[i].Date.After(history[j].Date) })

		resp := CardResponse{Asset: *asset, Inspections: history}
		if op, err := settings.LoadOperator(c.Request.Context(), a.DB); err == nil {
			resp.Operator = op
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Summary handles GET /api/summary over the unfiltered collection.
func Summary(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, err := st.Collection(c.Request.Context())
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, query.Summarize(collection, time.Now()))
	}
}

// LastInstrument handles GET /api/settings/instrument, the prefill for the
// inspection form. An empty body means no inspection recorded one yet.
func LastInstrument(a *app.App, st Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := st.LastInstrument(c.Request.Context())
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		if in == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, in)
	}
}

func findByID(c *gin.Context, st Store) (*domain.Asset, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		app.AbortError(c, http.StatusBadRequest, "bad_request", "invalid asset id", nil)
		return nil, false
	}
	collection, err := st.Collection(c.Request.Context())
	if err != nil {
		app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
		return nil, false
	}
	for i := range collection {
		if collection[i].ID == id {
			return &collection[i], true
		}
	}
	app.AbortError(c, http.StatusNotFound, "not_found", "asset not found", nil)
	return nil, false
}
