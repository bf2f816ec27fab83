// Package exports renders the asset collection as downloadable artifacts
// and restores it from a previously exported JSON backup.
package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	app "github.com/revisio/revisio-go/cmd/api/app"
	"github.com/revisio/revisio-go/cmd/api/assets"
	"github.com/revisio/revisio-go/cmd/api/events"
	"github.com/revisio/revisio-go/internal/domain"
	"github.com/revisio/revisio-go/internal/query"
)

// csvHeader matches the printed equipment roster column order.
var csvHeader = []string{
	"revision_number", "name", "type", "protection_class", "status",
	"manufacturer", "serial_number", "year", "usage_group", "category",
	"location", "next_inspection_date",
}

// CSV handles GET /api/exports/csv: the whole collection as a spreadsheet,
// uploaded to the object store with a short-lived download link.
func CSV(a *app.App, st assets.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.M == nil {
			app.AbortError(c, http.StatusServiceUnavailable, "unavailable", "object store not configured", nil)
			return
		}
		ctx := c.Request.Context()
		collection, err := st.Collection(ctx)
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		// Same filter parameters as the list endpoint, so the file matches
		// the roster the caller is looking at.
		visible := query.Apply(collection, assets.FiltersFromQuery(c), query.SortByNextInspection, time.Now())

		buf := &bytes.Buffer{}
		// UTF-8 BOM so spreadsheet apps detect the encoding.
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
		w := csv.NewWriter(buf)
		_ = w.Write(csvHeader)
		for _, rec := range visible {
			_ = w.Write(csvRow(rec))
		}
		w.Flush()
		if err := w.Error(); err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}

		objectKey := "export-" + uuid.New().String() + ".csv"
		_, err = a.M.PutObject(ctx, a.Cfg.MinIOBucket, objectKey, bytes.NewReader(buf.Bytes()),
			int64(buf.Len()), minio.PutObjectOptions{ContentType: "text/csv; charset=utf-8"})
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		if mc, ok := a.M.(*minio.Client); ok {
			url, err := mc.PresignedGetObject(ctx, a.Cfg.MinIOBucket, objectKey, time.Minute, nil)
			if err != nil {
				app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": url.String()})
			return
		}
		scheme := "http"
		if a.Cfg.MinIOUseSSL {
			scheme = "https"
		}
		c.JSON(http.StatusOK, gin.H{
			"url": fmt.Sprintf("%s://%s/%s/%s", scheme, a.Cfg.MinIOEndpoint, a.Cfg.MinIOBucket, objectKey),
		})
	}
}

func csvRow(a domain.Asset) []string {
	loc := ""
	if a.Location != nil {
		loc = *a.Location
	}
	next := ""
	if a.NextInspectionDate != nil {
		next = a.NextInspectionDate.Format("2006-01-02")
	}
	return []string{
		a.RevisionNumber, a.Name, a.Type, string(a.ProtectionClass), string(a.Status),
		a.Manufacturer, a.SerialNumber, strconv.Itoa(a.Year), string(a.UsageGroup),
		string(a.Category), loc, next,
	}
}

// JSON handles GET /api/exports/json: a full backup of the collection,
// inspections included, served inline as a download.
func JSON(a *app.App, st assets.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, err := st.Collection(c.Request.Context())
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		name := "assets-" + time.Now().Format("2006-01-02") + ".json"
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.JSON(http.StatusOK, collection)
	}
}

// Import handles POST /api/imports/json: replaces the whole collection
// with a previously exported backup. Admin only; all or nothing.
func Import(a *app.App, st assets.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var collection []domain.Asset
		if err := c.ShouldBindJSON(&collection); err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", err.Error(), app.BindingErrors(err))
			return
		}
		for i := range collection {
			if collection[i].ID == uuid.Nil {
				collection[i].ID = uuid.New()
			}
			for j := range collection[i].Inspections {
				if collection[i].Inspections[j].ID == uuid.Nil {
					collection[i].Inspections[j].ID = uuid.New()
				}
				collection[i].Inspections[j].AssetID = collection[i].ID
			}
		}
		if err := st.ReplaceAll(c.Request.Context(), collection); err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		events.Publish(c.Request.Context(), a.Q, events.Event{
			Type: events.TypeCollectionReplaced,
			Data: gin.H{"count": len(collection)},
		})
		c.JSON(http.StatusOK, gin.H{"imported": len(collection)})
	}
}
