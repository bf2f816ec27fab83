// Package settings stores the operator block printed on inspection cards
// and exposed to the client for branding.
package settings

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/revisio/revisio-go/cmd/api/app"
)

// Operator identifies the organization operating the equipment.
type Operator struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address"`
	CompanyID string `json:"company_id"`
}

// LoadOperator reads the single operator row. A missing row is not an
// error; callers get a nil Operator.
func LoadOperator(ctx context.Context, db app.DB) (*Operator, error) {
	if db == nil {
		return nil, nil
	}
	row := db.QueryRow(ctx, `select name, address, company_id from operator_info where id = 1`)
	var op Operator
	if err := row.Scan(&op.Name, &op.Address, &op.CompanyID); err != nil {
		return nil, nil
	}
	return &op, nil
}

// GetOperator handles GET /api/settings/operator.
func GetOperator(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		op, err := LoadOperator(c.Request.Context(), a.DB)
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		if op == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, op)
	}
}

// PutOperator handles PUT /api/settings/operator (admin only).
func PutOperator(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var op Operator
		if err := c.ShouldBindJSON(&op); err != nil {
			app.AbortError(c, http.StatusBadRequest, "bad_request", err.Error(), app.BindingErrors(err))
			return
		}
		_, err := a.DB.Exec(c.Request.Context(), `
			insert into operator_info (id, name, address, company_id)
			values (1, $1, $2, $3)
			on conflict (id) do update set name = excluded.name,
			       address = excluded.address, company_id = excluded.company_id`,
			op.Name, op.Address, op.CompanyID)
		if err != nil {
			app.AbortError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, op)
	}
}
