package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/config"
	"github.com/durumcu/durumcu-app/controllers"
	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/otp"
)

func setupTestDBForAuth(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupAuthRouter(t *testing.T, db *gorm.DB, cfg *config.Config) (*gin.Engine, *otp.Store) {
	codes := otp.NewStore()
	t.Cleanup(codes.Close)

	authCtrl := controllers.NewAuthController(db, codes, cfg)
	r := gin.New()
	r.POST("/api/auth/send-code", authCtrl.SendCode)
	r.POST("/api/auth/verify-code", authCtrl.VerifyCode)
	r.POST("/api/auth/register", authCtrl.Register)
	r.GET("/api/customers/:customer_id/orders", authCtrl.GetCustomerOrders)
	return r, codes
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOTPLoginFlow(t *testing.T) {
	db := setupTestDBForAuth(t)
	r, _ := setupAuthRouter(t, db, &config.Config{AppEnv: "development"})

	// Unregistered phone: code goes out, isRegistered is false
	w := postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "5551234567"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["isRegistered"])
	devCode, ok := body["devCode"].(string)
	assert.True(t, ok, "devCode must be echoed outside production")
	assert.Len(t, devCode, 6)

	// Verification succeeds but there is no account yet
	w = postJSON(t, r, "/api/auth/verify-code", gin.H{"phone": "5551234567", "code": devCode})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Nil(t, body["customer"])
	assert.Equal(t, false, body["isRegistered"])

	// Register the customer
	w = postJSON(t, r, "/api/auth/register", gin.H{
		"firstName": "Ayşe",
		"lastName":  "Yılmaz",
		"phone":     "5551234567",
		"address":   "Atatürk Cad. 12",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	customer := decodeBody(t, w)
	assert.NotEmpty(t, customer["id"])

	// The same phone now reports as registered
	w = postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "5551234567"})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["isRegistered"])

	// And verification returns the account
	w = postJSON(t, r, "/api/auth/verify-code", gin.H{"phone": "5551234567", "code": body["devCode"]})
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	verified, ok := body["customer"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, customer["id"], verified["id"])
}

func TestSendCodeValidatesPhone(t *testing.T) {
	db := setupTestDBForAuth(t)
	r, _ := setupAuthRouter(t, db, &config.Config{AppEnv: "development"})

	w := postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "555abc4567"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Whitespace is stripped before validation
	w = postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "555 123 4567"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyCodeFailures(t *testing.T) {
	db := setupTestDBForAuth(t)
	r, _ := setupAuthRouter(t, db, &config.Config{AppEnv: "development"})

	// No pending code
	w := postJSON(t, r, "/api/auth/verify-code", gin.H{"phone": "5559999999", "code": "123456"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Wrong code, retry with the right one still allowed
	w = postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "5559999999"})
	devCode := decodeBody(t, w)["devCode"].(string)

	wrong := "000000"
	if wrong == devCode {
		wrong = "000001"
	}
	w = postJSON(t, r, "/api/auth/verify-code", gin.H{"phone": "5559999999", "code": wrong})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/auth/verify-code", gin.H{"phone": "5559999999", "code": devCode})
	assert.Equal(t, http.StatusOK, w.Code)

	// Single use: the consumed code is gone
	w = postJSON(t, r, "/api/auth/verify-code", gin.H{"phone": "5559999999", "code": devCode})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCodeNotEchoedInProduction(t *testing.T) {
	db := setupTestDBForAuth(t)
	r, _ := setupAuthRouter(t, db, &config.Config{AppEnv: "production"})

	w := postJSON(t, r, "/api/auth/send-code", gin.H{"phone": "5551234567"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	_, exists := body["devCode"]
	assert.False(t, exists, "devCode must not leak in production")
}

func TestRegisterUpdatesProfileButNotPhone(t *testing.T) {
	db := setupTestDBForAuth(t)
	r, _ := setupAuthRouter(t, db, &config.Config{AppEnv: "development"})

	w := postJSON(t, r, "/api/auth/register", gin.H{
		"firstName": "Ayşe", "lastName": "Yılmaz",
		"phone": "5551234567", "address": "Atatürk Cad. 12",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	first := decodeBody(t, w)

	// Re-registering with the same phone edits the profile in place
	w = postJSON(t, r, "/api/auth/register", gin.H{
		"firstName": "Ayşe", "lastName": "Demir",
		"phone": "5551234567", "address": "İstiklal Cad. 5",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)

	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, "Demir", second["lastName"])
	assert.Equal(t, "İstiklal Cad. 5", second["address"])

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
