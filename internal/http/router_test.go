package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/procurement-backend/internal/data/aggregates"
	"github.com/yungbote/procurement-backend/internal/data/repos"
	"github.com/yungbote/procurement-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/procurement-backend/internal/http/handlers"
	httpMW "github.com/yungbote/procurement-backend/internal/http/middleware"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
	"github.com/yungbote/procurement-backend/internal/observability"
	"github.com/yungbote/procurement-backend/internal/platform/ctxutil"
	"github.com/yungbote/procurement-backend/internal/platform/dbctx"
	"github.com/yungbote/procurement-backend/internal/services"
)

type routerFixture struct {
	engine *gin.Engine
	db     *gorm.DB
	auth   services.AuthService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	ruleRepo := repos.NewRuleRepo(db, log)
	requestRepo := repos.NewRequestRepo(db, log)
	auditRepo := repos.NewAuditRepo(db, log)
	_, err := ruleRepo.SeedDefaults(dbctx.Context{Ctx: ctx}, splintering.DefaultRules())
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	authSvc := services.NewAuthService(log, "test-secret", "procurement-test", time.Hour)
	splinterSvc := services.NewSplinteringService(log, ruleRepo, nil, repos.SnapshotSource{Repo: requestRepo}, auditRepo, nil, metrics, 2)
	combineSvc := services.NewCombineService(log, aggregates.NewGormTxRunner(db), requestRepo, auditRepo, metrics)

	engine := NewRouter(RouterConfig{
		Log:                log,
		Metrics:            metrics,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, authSvc),
		SplinteringHandler: httpH.NewSplinteringHandler(splinterSvc),
		ThresholdHandler:   httpH.NewThresholdHandler(splinterSvc),
		CombineHandler:     httpH.NewCombineHandler(combineSvc),
		HealthHandler:      httpH.NewHealthHandler(db),
	})
	return &routerFixture{engine: engine, db: db, auth: authSvc}
}

func (f *routerFixture) token(t *testing.T, dept string, roles ...string) string {
	t.Helper()
	tok, err := f.auth.IssueToken(ctxutil.ActorData{ID: uuid.NewString(), Name: "Test User", Department: dept, Roles: roles})
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func TestHealthcheck(t *testing.T) {
	f := newRouterFixture(t)
	rec, _ := f.do(t, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newRouterFixture(t)
	for _, path := range []string{"/api/splintering/rules", "/api/splintering/rules/vendor_splintering"} {
		method := http.MethodGet
		if path != "/api/splintering/rules" {
			method = http.MethodPatch
		}
		rec, _ := f.do(t, method, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec, _ := f.do(t, http.MethodGet, "/api/splintering/rules", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSplinteringRoutes(t *testing.T) {
	f := newRouterFixture(t)
	employee := f.token(t, "IT", "employee")
	manager := f.token(t, "Procurement", "procurement_manager")

	rec, body := f.do(t, http.MethodGet, "/api/splintering/rules", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["rules"], len(splintering.DefaultRules()))

	rec, body = f.do(t, http.MethodPost, "/api/splintering/check", employee, map[string]any{
		"id": "new", "vendor_name": "Nobody Ltd", "estimated_cost": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["alerts"])
	assert.Equal(t, false, body["block_submission"])

	rec, _ = f.do(t, http.MethodPatch, "/api/splintering/rules/vendor_splintering", employee, map[string]any{"threshold_amount": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = f.do(t, http.MethodPatch, "/api/splintering/rules/vendor_splintering", manager, map[string]any{"threshold_amount": 30000})
	require.Equal(t, http.StatusOK, rec.Code)
	rule := body["rule"].(map[string]any)
	assert.InDelta(t, 30000, rule["threshold_amount"], 0.001)

	rec, _ = f.do(t, http.MethodPatch, "/api/splintering/rules/no_such_rule", manager, map[string]any{"enabled": false})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	batch := make([]map[string]any, 101)
	for i := range batch {
		batch[i] = map[string]any{"id": uuid.NewString()}
	}
	rec, _ = f.do(t, http.MethodPost, "/api/splintering/check-batch", employee, map[string]any{"requests": batch})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecutiveThresholdRoute(t *testing.T) {
	f := newRouterFixture(t)
	rec, body := f.do(t, http.MethodPost, "/api/thresholds/executive", f.token(t, "IT", "employee"), map[string]any{
		"amount": "3500000", "categories": []string{"Consulting"}, "currency": "usd",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	alert := body["alert"].(map[string]any)
	assert.Equal(t, true, alert["is_required"])
	assert.Equal(t, "goods_services", alert["threshold_type"])
}

func TestCombineRoutes(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	a := testutil.SeedRequest(t, ctx, f.db, "IT", 400, testutil.WithItem("Laptop", 1, 400))
	b := testutil.SeedRequest(t, ctx, f.db, "IT", 800, testutil.WithItem("laptop", 2, 400))
	payload := map[string]any{"request_ids": []string{a.ID.String(), b.ID.String()}}

	employee := f.token(t, "IT", "employee")
	officer := f.token(t, "IT", "procurement_officer")

	rec, body := f.do(t, http.MethodPost, "/api/requests/combine/validate", employee, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["permissions"].(map[string]any)["can_combine"])

	rec, body = f.do(t, http.MethodPost, "/api/requests/combine", employee, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient_permissions", body["error"].(map[string]any)["code"])

	rec, body = f.do(t, http.MethodPost, "/api/requests/combine/preview", officer, payload)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := body["preview"].(map[string]any)
	assert.InDelta(t, 1200, preview["total_value"], 0.001)

	rec, body = f.do(t, http.MethodPost, "/api/requests/combine", officer, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, body["request"].(map[string]any)["id"])

	rec, body = f.do(t, http.MethodPost, "/api/requests/combine", officer, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_combination", body["error"].(map[string]any)["code"])

	rec, _ = f.do(t, http.MethodPost, "/api/requests/combine", officer, map[string]any{"request_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
