package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type ProfileController struct {
	Dashboard *services.DashboardService
}

func NewProfileController(dashboard *services.DashboardService) *ProfileController {
	return &ProfileController{Dashboard: dashboard}
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	profile, err := pc.Dashboard.GetProfile(c.Request.Context(), owner)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant profile", profile)
}

func (pc *ProfileController) SaveProfile(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	var body services.ProfileInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	profile, err := pc.Dashboard.SaveProfile(c.Request.Context(), owner, body)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant profile saved", profile)
}

// Overview is the dashboard landing data: the owner, plan limits and usage.
func (pc *ProfileController) Overview(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	usage, err := pc.Dashboard.Usage(c.Request.Context(), owner)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", gin.H{
		"user":  owner.Public(),
		"plan":  usage.Plan.Details(),
		"usage": usage,
	})
}
