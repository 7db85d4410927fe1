package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/realtime"
	"github.com/durumcu/durumcu-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenu -> public listing, hidden items filtered out
func (mc *MenuController) GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Where("available = ?", true).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, items)
}

// GetAllMenuItems -> admin listing including unavailable items
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	var items []models.MenuItem
	if err := mc.DB.Order("category_id, name").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, items)
}

// CreateMenuItem -> admin
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required"`
		Category    string  `json:"category" binding:"required"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name, price and category are required"))
		return
	}
	if req.Price <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
		return
	}

	var category models.Category
	if err := mc.DB.First(&category, "id = ?", req.Category).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	if req.Image == "" {
		req.Image = "🍽️"
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.Category,
		Image:       req.Image,
		Available:   true,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMenuUpdate()
	utils.RespondJSON(c, http.StatusCreated, item)
}

// UpdateMenuItem -> admin; existing orders keep their snapshot, price and
// name edits only affect future orders.
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Image       *string  `json:"image"`
		Available   *bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
			return
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		var category models.Category
		if err := mc.DB.First(&category, "id = ?", *req.Category).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		item.CategoryID = *req.Category
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMenuUpdate()
	utils.RespondJSON(c, http.StatusOK, item)
}

// DeleteMenuItem -> admin; past orders are untouched, they carry their own
// snapshot of the item.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	if err := mc.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMenuUpdate()
	utils.RespondJSON(c, http.StatusOK, gin.H{"success": true})
}
