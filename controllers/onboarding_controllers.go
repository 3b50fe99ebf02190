package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type OnboardingController struct {
	Onboarding *services.OnboardingService
}

func NewOnboardingController(onboarding *services.OnboardingService) *OnboardingController {
	return &OnboardingController{Onboarding: onboarding}
}

func (oc *OnboardingController) Show(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Onboarding", oc.Onboarding.View(owner))
}

// Complete stores the restaurant name and ends first login. On failure the
// client stays on the onboarding page and may retry.
func (oc *OnboardingController) Complete(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	if !owner.FirstLogin {
		utils.RespondJSON(c, http.StatusOK, "Onboarding already completed", oc.Onboarding.View(owner))
		return
	}

	var body struct {
		RestaurantName string `json:"restaurant_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	redirect, err := oc.Onboarding.Complete(c.Request.Context(), owner, body.RestaurantName)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Onboarding completed", gin.H{
		"redirect": redirect,
		"user":     owner.Public(),
	})
}
