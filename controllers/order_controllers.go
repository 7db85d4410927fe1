package controllers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/realtime"
	"github.com/durumcu/durumcu-app/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// CreateOrder places an order at status pending. The items in the request
// become the immutable snapshot stored with the order, later menu edits
// never change what was bought or for how much.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		CustomerID    string            `json:"customerId" binding:"required"`
		Items         models.OrderItems `json:"items" binding:"required"`
		TotalAmount   float64           `json:"totalAmount" binding:"required"`
		PaymentMethod string            `json:"paymentMethod" binding:"required"`
		Note          string            `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing order fields"))
		return
	}

	if len(req.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order has no items"))
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item in order"))
			return
		}
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown payment method"))
		return
	}
	if math.Abs(req.TotalAmount-req.Items.Total()) > 0.001 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("total amount does not match the items"))
		return
	}

	// A client may still hold a customer id from before a server data reset.
	var customer models.Customer
	if err := oc.DB.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("customer not found, please log in again"))
		return
	}

	order := models.Order{
		ID:            uuid.NewString(),
		CustomerID:    customer.ID,
		Customer:      customer,
		Items:         req.Items,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
	}
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New order %s (%s) total %.2f", order.ShortCode(), order.PaymentMethod, order.TotalAmount)

	realtime.BroadcastNewOrder(order)
	utils.RespondJSON(c, http.StatusCreated, order)
}

// GetAllOrders -> admin listing, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Customer").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, orders)
}

// GetOrderByID resolves a full identifier or, for the courier, a short code:
// a case-insensitive match on the last 8 characters of the id.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.findOrder(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, order)
}

// CancelOrder lets the owning customer cancel while the order has not left
// the shop. Once it is out for delivery or delivered it stays.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("customerId is required"))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if order.CustomerID != req.CustomerID {
		utils.RespondError(c, http.StatusForbidden, errors.New("you cannot cancel this order"))
		return
	}

	if !order.Cancellable() {
		utils.RespondError(c, http.StatusBadRequest, models.ErrNotCancellable)
		return
	}

	oc.setStatus(c, order.ID, models.StatusCancelled)
}

// UpdateStatus is the staff-driven transition. Transitions are validated
// against the lifecycle table; repeating the current status is a no-op.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("status is required"))
		return
	}

	if !models.IsValidStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, models.ErrInvalidStatus)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, "id = ?", c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		utils.RespondError(c, http.StatusConflict, models.ErrInvalidTransition)
		return
	}

	oc.setStatus(c, order.ID, req.Status)
}

// MarkDelivered is the courier's only write: out_for_delivery -> delivered.
// The courier has no account, so this cannot go through the admin guard.
func (oc *OrderController) MarkDelivered(c *gin.Context) {
	order, err := oc.findOrder(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if order.Status != models.StatusOutForDelivery {
		utils.RespondError(c, http.StatusConflict, models.ErrInvalidTransition)
		return
	}

	oc.setStatus(c, order.ID, models.StatusDelivered)
}

// setStatus persists the transition, broadcasts the updated order and writes
// the response. Broadcast happens before the response returns, so a staff
// dashboard that caused the change sees its own event too.
func (oc *OrderController) setStatus(c *gin.Context, orderID, status string) {
	if err := oc.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Customer").First(&order, "id = ?", orderID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %s -> %s", order.ShortCode(), status)

	realtime.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, order)
}

func (oc *OrderController) findOrder(id string) (models.Order, error) {
	var order models.Order
	err := oc.DB.Preload("Customer").First(&order, "id = ?", id).Error
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) || len(id) > 8 {
		return order, err
	}

	// Short code: last 8 characters of the id, case-insensitive.
	err = oc.DB.Preload("Customer").
		Where("UPPER(SUBSTR(id, -8, 8)) = UPPER(?)", id).
		First(&order).Error
	return order, err
}
