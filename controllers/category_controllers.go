package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/durumcu/durumcu-app/models"
	"github.com/durumcu/durumcu-app/realtime"
	"github.com/durumcu/durumcu-app/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

// GetAllCategories -> public, sorted for display
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := cc.DB.Order("sort_order").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, categories)
}

// CreateCategory -> admin; the slug id is chosen by the caller and must be
// unique, the sort order is appended at the end.
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req struct {
		ID    string `json:"id" binding:"required"`
		Name  string `json:"name" binding:"required"`
		Emoji string `json:"emoji"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id and name are required"))
		return
	}

	var existing models.Category
	if err := cc.DB.First(&existing, "id = ?", req.ID).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("this category id is already in use"))
		return
	}

	var maxOrder int
	cc.DB.Model(&models.Category{}).Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

	if req.Emoji == "" {
		req.Emoji = "🍽️"
	}

	category := models.Category{
		ID:        req.ID,
		Name:      req.Name,
		Emoji:     req.Emoji,
		SortOrder: maxOrder + 1,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastCategoriesUpdate()
	utils.RespondJSON(c, http.StatusCreated, category)
}

// UpdateCategory -> admin; renames and re-emojis, the slug itself is fixed.
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id := c.Param("cat_id")

	var category models.Category
	if err := cc.DB.First(&category, "id = ?", id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	var req struct {
		Name  string `json:"name"`
		Emoji string `json:"emoji"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Emoji != "" {
		category.Emoji = req.Emoji
	}

	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastCategoriesUpdate()
	utils.RespondJSON(c, http.StatusOK, category)
}

// DeleteCategory -> admin; refused while menu items still reference it.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id := c.Param("cat_id")

	var itemCount int64
	if err := cc.DB.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&itemCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if itemCount > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("this category still has %d items, move or delete them first", itemCount))
		return
	}

	if err := cc.DB.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastCategoriesUpdate()
	utils.RespondJSON(c, http.StatusOK, gin.H{"success": true})
}
