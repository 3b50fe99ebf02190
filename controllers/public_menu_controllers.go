package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type PublicMenuController struct {
	Storefront *services.StorefrontService
}

func NewPublicMenuController(storefront *services.StorefrontService) *PublicMenuController {
	return &PublicMenuController{Storefront: storefront}
}

// GetMenu serves the storefront of :owner, a subdomain slug or an email.
func (pc *PublicMenuController) GetMenu(c *gin.Context) {
	menu, err := pc.Storefront.Menu(c.Request.Context(), c.Param("owner"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=30")
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

func (pc *PublicMenuController) QuoteCart(c *gin.Context) {
	var body struct {
		Items []services.QuoteLine `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	quote, err := pc.Storefront.Quote(c.Request.Context(), c.Param("owner"), body.Items)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart total", quote)
}
