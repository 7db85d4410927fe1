package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/config"
	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/otp"
	"github.com/durumcu/durumcu-app/utils"
)

type AuthController struct {
	DB    *gorm.DB
	Codes *otp.Store
	Cfg   *config.Config
}

func NewAuthController(db *gorm.DB, codes *otp.Store, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Codes: codes, Cfg: cfg}
}

// SendCode issues a verification code for a phone number. SMS delivery is
// simulated: the code is written to the server console. Outside production
// the code is also echoed in the response for convenience.
func (ac *AuthController) SendCode(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("phone is required"))
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidPhone(phone) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("enter a valid phone number (10-11 digits)"))
		return
	}

	code, err := ac.Codes.Issue(phone)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("[SMS] %s -> your verification code is %s", phone, code)

	var count int64
	if err := ac.DB.Model(&models.Customer{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	resp := gin.H{"isRegistered": count > 0}
	if !ac.Cfg.IsProduction() {
		resp["devCode"] = code
	}
	utils.RespondJSON(c, http.StatusOK, resp)
}

// VerifyCode consumes a pending code. On success the response carries the
// customer record, or a null customer when the phone has no account yet and
// the client should continue to registration.
func (ac *AuthController) VerifyCode(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("phone and code are required"))
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if err := ac.Codes.Verify(phone, req.Code); err != nil {
		switch {
		case errors.Is(err, otp.ErrCodeNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, otp.ErrCodeExpired):
			utils.RespondError(c, http.StatusUnauthorized, err)
		default:
			utils.RespondError(c, http.StatusBadRequest, err)
		}
		return
	}

	var customer models.Customer
	if err := ac.DB.Where("phone = ?", phone).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondJSON(c, http.StatusOK, gin.H{"customer": nil, "isRegistered": false})
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, gin.H{"customer": customer, "isRegistered": true})
}

// Register creates the customer on first registration and updates name and
// address afterwards. The phone stays immutable, it is the identity.
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Phone     string `json:"phone" binding:"required"`
		Address   string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("all fields are required"))
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidPhone(phone) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("enter a valid phone number (10-11 digits)"))
		return
	}

	var customer models.Customer
	err := ac.DB.Where("phone = ?", phone).First(&customer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{
			ID:        uuid.NewString(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     phone,
			Address:   req.Address,
			CreatedAt: time.Now(),
		}
		if err := ac.DB.Create(&customer).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.InfoLogger.Printf("New customer registered: %s", phone)
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	default:
		customer.FirstName = req.FirstName
		customer.LastName = req.LastName
		customer.Address = req.Address
		if err := ac.DB.Save(&customer).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, customer)
}

// GetCustomerOrders lists a customer's orders, newest first.
func (ac *AuthController) GetCustomerOrders(c *gin.Context) {
	customerID := c.Param("customer_id")

	var orders []models.Order
	if err := ac.DB.Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, orders)
}
