package settings

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	app "github.com/revisio/revisio-go/cmd/api/app"
)

func TestGetOperatorWithoutRow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := app.NewApp(app.Config{Env: "test"}, nil, nil, nil, nil)
	a.R.GET("/api/settings/operator", GetOperator(a))

	rr := httptest.NewRecorder()
	a.R.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/settings/operator", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "{}" {
		t.Fatalf("expected empty object, got %s", rr.Body.String())
	}
}
