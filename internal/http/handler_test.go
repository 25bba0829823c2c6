package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/tenant-improvements/internal/auth"
	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/db"
	"github.com/nurpe/tenant-improvements/internal/excel"
	"github.com/nurpe/tenant-improvements/internal/http/middleware"
	"github.com/nurpe/tenant-improvements/internal/metrics"
	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/pdf"
	"github.com/nurpe/tenant-improvements/internal/repository"
	"github.com/nurpe/tenant-improvements/internal/service"
)

const (
	testAdmin    = "ST1ADMIN"
	testLandlord = "ST1LANDLORD"
	testTenant   = "ST2TENANT"
	testStranger = "ST4STRANGER"
)

type testServer struct {
	router *gin.Engine
	parser *auth.Parser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		DB:          config.DBConfig{DSN: "file::memory:"},
		Auth:        config.AuthConfig{AccessSecret: "test-secret"},
		Registry:    config.RegistryConfig{AdminPrincipal: testAdmin},
	}
	log := zerolog.Nop()

	database, err := db.New(cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	require.NoError(t, err)

	store := repository.NewStore(database)
	handler := NewHandler(Services{
		Properties:  service.NewPropertyService(store, cfg, log, recorder),
		Contractors: service.NewContractorService(store, cfg, log, recorder),
		Projects:    service.NewProjectService(store, log, recorder),
		Allowances:  service.NewAllowanceService(store, cfg, log, recorder),
		Statements:  service.NewStatementService(store, excel.NewGenerator(), pdf.NewGenerator()),
		Ledger:      service.NewLedgerService(store),
	}, log)

	parser := auth.NewParser(cfg.Auth.AccessSecret)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	router := NewRouter(handler, middleware.Auth(parser), metricsHandler, cfg.Environment, []string{"*"}, log)
	return &testServer{router: router, parser: parser}
}

func (s *testServer) do(t *testing.T, method, path string, principal string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		token, err := s.parser.Issue(model.Principal(principal), time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/allowances/p1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/allowances/p1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := auth.NewParser("other-secret")
	token, err := other.Issue(testLandlord, time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/allowances/p1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAllowanceFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/allowances", testLandlord, gin.H{
		"project_id":   "proj1",
		"tenant":       testTenant,
		"total_amount": 10000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode(t, w)
	assert.Equal(t, true, receipt["ok"])
	assert.EqualValues(t, 1, receipt["height"])
	assert.NotEmpty(t, receipt["tx_id"])

	w = srv.do(t, http.MethodPost, "/allowances/proj1/milestones", testLandlord, gin.H{
		"milestone_id": "m1",
		"description":  "Demolition",
		"amount":       3000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/allowances/proj1/milestones/m1/release", testLandlord, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 409, decode(t, w)["code"])

	w = srv.do(t, http.MethodPost, "/allowances/proj1/milestones/m1/complete", testLandlord, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, 407, decode(t, w)["code"])

	w = srv.do(t, http.MethodPost, "/allowances/proj1/milestones/m1/complete", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/allowances/proj1/milestones/m1/release", testLandlord, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/allowances/proj1", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	allowance := decode(t, w)
	assert.EqualValues(t, 10000, allowance["total_amount"])
	assert.EqualValues(t, 3000, allowance["released_amount"])
	assert.EqualValues(t, 7000, allowance["remaining_amount"])

	w = srv.do(t, http.MethodGet, "/allowances/proj1/milestones/m1", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	milestone := decode(t, w)
	assert.Equal(t, true, milestone["completed"])
	assert.Equal(t, true, milestone["paid"])

	w = srv.do(t, http.MethodGet, "/allowances/proj1/milestones", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["milestones"], 1)

	w = srv.do(t, http.MethodGet, "/ledger?after=1&limit=10", testStranger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["entries"], 3)

	w = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `improvements_transactions_total{component="allowance",operation="release_funds",result="ok"} 1`)
	assert.Contains(t, w.Body.String(), `result="409"`)
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/allowances/missing", testLandlord, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, 402, decode(t, w)["code"])

	w = srv.do(t, http.MethodPost, "/allowances", testLandlord, gin.H{"project_id": "p"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/allowances", testLandlord, gin.H{"project_id": "p", "tenant": testTenant, "total_amount": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.EqualValues(t, 412, decode(t, w)["code"])

	w = srv.do(t, http.MethodPost, "/allowances", testLandlord, gin.H{"project_id": "p", "tenant": testTenant, "total_amount": 0})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = srv.do(t, http.MethodPost, "/allowances", testLandlord, gin.H{"project_id": "p", "tenant": testTenant, "total_amount": 0})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 401, decode(t, w)["code"])

	w = srv.do(t, http.MethodPost, "/ledger", testLandlord, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/ledger?after=-3", testLandlord, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, coded := decode(t, w)["code"]
	assert.False(t, coded)
}

func TestPropertyAndContractorOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/properties", testLandlord, gin.H{"property_id": "prop1", "physical_address": "1 Main St"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/properties/prop1/verified", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["verified"])

	w = srv.do(t, http.MethodPost, "/properties/prop1/condition", testLandlord, gin.H{"condition": "good"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, 104, decode(t, w)["code"])

	w = srv.do(t, http.MethodPost, "/properties/prop1/condition", testAdmin, gin.H{"condition": "good"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/properties/prop1", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code)
	property := decode(t, w)
	assert.Equal(t, "good", property["condition"])
	assert.Equal(t, true, property["verified"])

	w = srv.do(t, http.MethodPost, "/contractors", testAdmin, gin.H{
		"contractor_id":  "c1",
		"name":           "Acme Build",
		"specialties":    []string{"drywall", "Drywall", "electrical"},
		"license_number": "LIC-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/contractors/c1/verify", testAdmin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/contractors/c1/assignments", testAdmin, gin.H{"project_id": "proj1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 304, decode(t, w)["code"])
}

func TestStatementDownload(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/allowances", testLandlord, gin.H{"project_id": "proj1", "tenant": testTenant, "total_amount": 500})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodGet, "/allowances/proj1/statement.pdf", testTenant, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="allowance-proj1-`))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = srv.do(t, http.MethodGet, "/allowances/proj1/statement.xlsx", testStranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, 413, decode(t, w)["code"])
}
