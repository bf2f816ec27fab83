package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	app "github.com/revisio/revisio-go/cmd/api/app"
)

func TestHasRole(t *testing.T) {
	admin := AuthUser{Roles: []string{RoleAdmin}}
	if !admin.HasRole(RoleViewer) || !admin.HasRole(RoleInspector) {
		t.Fatal("admin must imply every role")
	}
	viewer := AuthUser{Roles: []string{RoleViewer}}
	if viewer.HasRole(RoleInspector) {
		t.Fatal("viewer must not hold inspector")
	}
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := app.Config{
		Env:             "test",
		AuthMode:        "local",
		AuthLocalSecret: "secret",
		AdminPassword:   "hunter2",
		OIDCGroupClaim:  "groups",
	}
	keyf := func(t *jwt.Token) (interface{}, error) { return []byte(cfg.AuthLocalSecret), nil }
	a := app.NewApp(cfg, nil, keyf, nil, nil)
	a.R.POST("/login", Login(a))
	a.R.GET("/me", Middleware(a), Me)

	body, _ := json.Marshal(gin.H{"username": "admin", "password": "hunter2"})
	rr := httptest.NewRecorder()
	a.R.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil || out.Token == "" {
		t.Fatalf("expected token, got %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	a.R.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var u AuthUser
	if err := json.Unmarshal(rr.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if !u.HasRole(RoleAdmin) {
		t.Fatalf("local login must grant admin, got %+v", u.Roles)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := app.Config{Env: "test", AuthMode: "local", AuthLocalSecret: "secret", AdminPassword: "hunter2"}
	a := app.NewApp(cfg, nil, nil, nil, nil)
	a.R.POST("/login", Login(a))

	body, _ := json.Marshal(gin.H{"username": "admin", "password": "wrong"})
	rr := httptest.NewRecorder()
	a.R.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireRoleBlocksInsufficientUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := app.Config{Env: "test", TestBypassAuth: true}
	a := app.NewApp(cfg, nil, nil, nil, nil)
	a.R.DELETE("/thing", Middleware(a), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	a.R.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/thing", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for inspector on admin route, got %d", rr.Code)
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := app.Config{Env: "test"}
	keyf := func(t *jwt.Token) (interface{}, error) { return []byte("secret"), nil }
	a := app.NewApp(cfg, nil, keyf, nil, nil)
	a.R.GET("/me", Middleware(a), Me)

	rr := httptest.NewRecorder()
	a.R.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
