package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// Login checks the credentials and returns a 24h session token.
func (ac *AdminController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("username and password are required"))
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username, admin.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Admin login: %s", admin.Username)

	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

// Verify returns the account behind a valid token; the middleware has
// already resolved it.
func (ac *AdminController) Verify(c *gin.Context) {
	adminInterface, exists := c.Get("admin")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"admin": adminInterface})
}

// ChangePassword requires proof of the current password and a new password
// of at least 6 characters.
func (ac *AdminController) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("current and new password are required"))
		return
	}

	adminInterface, exists := c.Get("admin")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}
	admin := adminInterface.(models.Admin)

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("current password is wrong"))
		return
	}

	if len(req.NewPassword) < 6 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("new password must be at least 6 characters"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.DB.Model(&admin).Update("password", string(hashed)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"success": true})
}

// GetStats returns the dashboard counters.
func (ac *AdminController) GetStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders    int64   `json:"total_orders"`
		TodayOrders    int64   `json:"today_orders"`
		TotalRevenue   float64 `json:"total_revenue"`
		TotalCustomers int64   `json:"total_customers"`
		TotalMenuItems int64   `json:"total_menu_items"`
		OrderStats     struct {
			Pending        int64 `json:"pending"`
			Preparing      int64 `json:"preparing"`
			Ready          int64 `json:"ready"`
			OutForDelivery int64 `json:"out_for_delivery"`
			Delivered      int64 `json:"delivered"`
			Cancelled      int64 `json:"cancelled"`
		} `json:"order_stats"`
	}

	err := ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders).Error
	if err == nil {
		err = ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders).Error
	}
	if err == nil {
		err = ac.DB.Model(&models.Order{}).Where("status <> ?", models.StatusCancelled).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue).Error
	}
	if err == nil {
		err = ac.DB.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error
	}
	if err == nil {
		err = ac.DB.Model(&models.MenuItem{}).Count(&stats.TotalMenuItems).Error
	}

	byStatus := []struct {
		status string
		dst    *int64
	}{
		{models.StatusPending, &stats.OrderStats.Pending},
		{models.StatusPreparing, &stats.OrderStats.Preparing},
		{models.StatusReady, &stats.OrderStats.Ready},
		{models.StatusOutForDelivery, &stats.OrderStats.OutForDelivery},
		{models.StatusDelivered, &stats.OrderStats.Delivered},
		{models.StatusCancelled, &stats.OrderStats.Cancelled},
	}
	for _, q := range byStatus {
		if err != nil {
			break
		}
		err = ac.DB.Model(&models.Order{}).Where("status = ?", q.status).Count(q.dst).Error
	}

	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, stats)
}
