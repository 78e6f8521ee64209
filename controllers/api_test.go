package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ogcash/bankapi/config"
	"github.com/ogcash/bankapi/middleware"
	"github.com/ogcash/bankapi/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testAdminKey     = "test-admin-key"
	testDefaultActor = "system"
)

// newTestRouter wires the full HTTP surface over an in-memory store.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	env := &config.Env{
		DepositDeadlineMinutes: 30,
		DepositMinAmount:       1000,
		DepositMaxAmount:       1000000,
		DepositUnitAmount:      1000,
		BankAccountBank:        "카카오뱅크",
		BankAccountNumber:      "3333-01-1234567",
		BankAccountName:        "OG스튜디오",
	}
	configService := services.NewConfigService(db, env)
	require.NoError(t, configService.EnsureDefaults())
	templateService := services.NewTemplateService(db)
	require.NoError(t, templateService.EnsureDefaults())

	transferService := services.NewTransferService(db, "http://localhost:3001")
	reconciler := services.NewReconciler(db, transferService, nil, configService, nil)
	depositService := services.NewDepositService(db, configService, env.DepositDeadlineMinutes)

	router := gin.New()
	setupTestRoutes(router, Controllers{
		Config:    NewConfigController(configService, testDefaultActor),
		Templates: NewTemplateController(templateService),
		Deposits:  NewDepositController(depositService, reconciler, testAdminKey),
		Transfers: NewTransferController(transferService),
		Ledger:    NewLedgerController(reconciler),
	})
	return router
}

// Controllers mirrors the route-table bundle without importing routes (which
// would create an import cycle from this package's tests).
type Controllers struct {
	Config    *ConfigController
	Templates *TemplateController
	Deposits  *DepositController
	Transfers *TransferController
	Ledger    *LedgerController
}

func setupTestRoutes(r *gin.Engine, c Controllers) {
	adminOnly := middleware.AdminOnly(testAdminKey)

	api := r.Group("/api")
	api.GET("/config", c.Config.GetConfig)
	api.POST("/config", adminOnly, c.Config.UpdateConfig)
	api.GET("/config-logs", adminOnly, c.Config.Logs)
	api.POST("/deposit-request", c.Deposits.Create)
	api.GET("/deposit-request/:id", c.Deposits.Get)
	api.GET("/deposit-requests", adminOnly, c.Deposits.List)
	api.POST("/deposit-confirm", adminOnly, c.Deposits.Confirm)
	api.GET("/db/users", c.Ledger.Accounts)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, admin bool) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Admin-Key", testAdminKey)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestDepositRequestLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/deposit-request", gin.H{
		"playerName":    "Steve",
		"depositorName": "김철수",
		"amount":        50000,
		"email":         "steve@example.com",
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	requestID := body["requestId"].(string)

	account := body["account"].(map[string]interface{})
	assert.Equal(t, "카카오뱅크", account["bank"])

	// Public read redacts the email.
	rec, body = doJSON(t, router, http.MethodGet, "/api/deposit-request/"+requestID, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "email")
	assert.Equal(t, "pending", body["status"])

	// Admin read includes it.
	rec, body = doJSON(t, router, http.MethodGet, "/api/deposit-request/"+requestID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "steve@example.com", body["email"])

	// Confirm requires the admin key.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/deposit-confirm", gin.H{"requestId": requestID}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = doJSON(t, router, http.MethodPost, "/api/deposit-confirm", gin.H{"requestId": requestID}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(50000), body["newBalance"])

	// A second confirm is a state conflict.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/deposit-confirm", gin.H{"requestId": requestID}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The credited account shows up in the ledger view.
	rec, body = doJSON(t, router, http.MethodGet, "/api/db/users", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	users := body["users"].([]interface{})
	require.Len(t, users, 1)
	assert.Equal(t, float64(50000), users[0].(map[string]interface{})["money"])
}

func TestDepositRequestRejectsBadAmount(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/deposit-request", gin.H{
		"playerName":    "Steve",
		"depositorName": "김철수",
		"amount":        500,
	}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestConfirmUnknownRequest(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/deposit-confirm", gin.H{"requestId": "DEPOSIT_0_missing"}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfigUpdateAndAudit(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/config", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1000), body["depositMinAmount"])

	rec, _ = doJSON(t, router, http.MethodPost, "/api/config", gin.H{
		"depositMinAmount":  1000,
		"depositMaxAmount":  1000000,
		"depositUnitAmount": 1000,
		"bankAccountBank":   "토스뱅크",
		"bankAccountNumber": "3333-01-1234567",
		"bankAccountName":   "OG스튜디오",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, router, http.MethodGet, "/api/config-logs?limit=10", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	// No X-Admin-Actor header was sent, so the configured fallback is logged.
	logs := body["logs"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, testDefaultActor, logs[0].(map[string]interface{})["actor"])

	// Update without the key is rejected before any mutation.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/config", gin.H{
		"depositMinAmount": 0, "depositMaxAmount": 1, "depositUnitAmount": 1,
	}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
