package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type MenuController struct {
	Dashboard *services.DashboardService
}

func NewMenuController(dashboard *services.DashboardService) *MenuController {
	return &MenuController{Dashboard: dashboard}
}

// GetAllMenus lists the owner's items, optionally for one category.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondAppError(c, utils.Validation("invalid category_id"))
			return
		}
		categoryID = uint(id)
	}

	items, err := mc.Dashboard.ListItems(c.Request.Context(), owner, categoryID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu items", items)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	var body services.ItemInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Dashboard.CreateItem(c.Request.Context(), owner, body)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	var body services.ItemInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Dashboard.UpdateItem(c.Request.Context(), owner, id, body)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// SetAvailability toggles whether customers can see and order the item.
func (mc *MenuController) SetAvailability(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	var body struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsAvailable == nil {
		utils.RespondAppError(c, utils.Validation("is_available is required"))
		return
	}

	item, err := mc.Dashboard.SetItemAvailability(c.Request.Context(), owner, id, *body.IsAvailable)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu availability updated", item)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	if err := mc.Dashboard.DeleteItem(c.Request.Context(), owner, id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_id": id})
}
