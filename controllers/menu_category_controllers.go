package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type MenuCategoryController struct {
	Dashboard *services.DashboardService
}

func NewMenuCategoryController(dashboard *services.DashboardService) *MenuCategoryController {
	return &MenuCategoryController{Dashboard: dashboard}
}

// GetAllCategories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	categories, err := mcc.Dashboard.ListCategories(c.Request.Context(), owner)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// CreateCategory is refused once the plan's category limit is reached.
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	var body services.CategoryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := mcc.Dashboard.CreateCategory(c.Request.Context(), owner, body)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "cat_id")
	if !ok {
		return
	}
	var body services.CategoryInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := mcc.Dashboard.UpdateCategory(c.Request.Context(), owner, id, body)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory also removes the category's items.
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "cat_id")
	if !ok {
		return
	}
	if err := mcc.Dashboard.DeleteCategory(c.Request.Context(), owner, id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
