package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/controllers"
	"github.com/durumcu/durumcu-app/middlewares"
	"github.com/durumcu/durumcu-app/models"
)

func setupTestDBForAdmin(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}, &models.Customer{}, &models.MenuItem{}, &models.Order{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	db.Create(&models.Admin{Username: "admin", Password: string(hashed), Role: "admin"})
	return db
}

func setupAdminRouter(db *gorm.DB) *gin.Engine {
	adminCtrl := controllers.NewAdminController(db)
	r := gin.New()
	r.POST("/api/admin/login", adminCtrl.Login)

	auth := r.Group("/api/admin")
	auth.Use(middlewares.AdminAuthMiddleware(db))
	{
		auth.GET("/verify", adminCtrl.Verify)
		auth.POST("/change-password", adminCtrl.ChangePassword)
		auth.GET("/stats", adminCtrl.GetStats)
	}
	return r
}

func loginAdmin(t *testing.T, r *gin.Engine, username, password string) (string, int) {
	t.Helper()
	w := postJSON(t, r, "/api/admin/login", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		return "", w.Code
	}
	token, _ := decodeBody(t, w)["token"].(string)
	return token, w.Code
}

func authGet(t *testing.T, r *gin.Engine, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	assert.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLoginAndVerify(t *testing.T) {
	db := setupTestDBForAdmin(t)
	r := setupAdminRouter(db)

	_, code := loginAdmin(t, r, "admin", "wrongpass")
	assert.Equal(t, http.StatusUnauthorized, code)

	_, code = loginAdmin(t, r, "ghost", "secret123")
	assert.Equal(t, http.StatusUnauthorized, code)

	token, code := loginAdmin(t, r, "admin", "secret123")
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, token)

	w := authGet(t, r, "/api/admin/verify", token)
	assert.Equal(t, http.StatusOK, w.Code)
	admin := decodeBody(t, w)["admin"].(map[string]interface{})
	assert.Equal(t, "admin", admin["username"])

	// Missing and malformed credentials are rejected before any handler runs
	w = authGet(t, r, "/api/admin/verify", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = authGet(t, r, "/api/admin/verify", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenDiesWithTheAccount(t *testing.T) {
	db := setupTestDBForAdmin(t)
	r := setupAdminRouter(db)

	token, _ := loginAdmin(t, r, "admin", "secret123")

	db.Delete(&models.Admin{}, "username = ?", "admin")

	w := authGet(t, r, "/api/admin/verify", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDBForAdmin(t)
	r := setupAdminRouter(db)

	token, _ := loginAdmin(t, r, "admin", "secret123")

	changeReq := func(current, next string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(gin.H{"currentPassword": current, "newPassword": next})
		req, _ := http.NewRequest("POST", "/api/admin/change-password", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Current password must be proven
	assert.Equal(t, http.StatusUnauthorized, changeReq("nope", "newsecret").Code)

	// New password must not be trivial
	assert.Equal(t, http.StatusBadRequest, changeReq("secret123", "abc").Code)

	assert.Equal(t, http.StatusOK, changeReq("secret123", "newsecret").Code)

	// Old password no longer works, new one does
	_, code := loginAdmin(t, r, "admin", "secret123")
	assert.Equal(t, http.StatusUnauthorized, code)
	_, code = loginAdmin(t, r, "admin", "newsecret")
	assert.Equal(t, http.StatusOK, code)
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDBForAdmin(t)
	r := setupAdminRouter(db)

	customer := models.Customer{ID: "c-1", FirstName: "Ayşe", LastName: "Yılmaz", Phone: "5551234567", Address: "x"}
	db.Create(&customer)
	db.Create(&models.Order{ID: "o-1", CustomerID: "c-1", Items: models.OrderItems{{ID: 1, Name: "Ayran", Price: 15, Quantity: 1}}, TotalAmount: 15, PaymentMethod: "door_cash", Status: "delivered"})
	db.Create(&models.Order{ID: "o-2", CustomerID: "c-1", Items: models.OrderItems{{ID: 1, Name: "Ayran", Price: 15, Quantity: 2}}, TotalAmount: 30, PaymentMethod: "door_cash", Status: "cancelled"})

	token, _ := loginAdmin(t, r, "admin", "secret123")
	w := authGet(t, r, "/api/admin/stats", token)
	assert.Equal(t, http.StatusOK, w.Code)

	stats := decodeBody(t, w)
	assert.EqualValues(t, 2, stats["total_orders"])
	// Cancelled orders are not revenue
	assert.InDelta(t, 15, stats["total_revenue"].(float64), 0.001)
	assert.EqualValues(t, 1, stats["total_customers"])
}

func TestDashboardStatsReportsStoreFailure(t *testing.T) {
	db := setupTestDBForAdmin(t)
	adminCtrl := controllers.NewAdminController(db)
	r := gin.New()
	r.GET("/api/admin/stats", adminCtrl.GetStats)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Close())

	w := authGet(t, r, "/api/admin/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["error"])
}
