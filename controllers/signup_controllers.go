package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type SignupController struct {
	Signups *services.SignupService
}

func NewSignupController(signups *services.SignupService) *SignupController {
	return &SignupController{Signups: signups}
}

// Signup validates the form and previews the subdomain. Nothing is stored
// until payment is verified.
func (sc *SignupController) Signup(c *gin.Context) {
	var input services.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := sc.Signups.Collect(c.Request.Context(), input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Signup details accepted", result)
}

func (sc *SignupController) ListPlans(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Available plans", models.Plans())
}

// SelectPlan merges the chosen plan into the pending signup.
func (sc *SignupController) SelectPlan(c *gin.Context) {
	var body struct {
		Signup services.PendingSignup `json:"signup"`
		PlanID string                 `json:"plan_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Signup.Email == "" {
		utils.RespondAppError(c, utils.Validation("signup details are missing, start from the signup step"))
		return
	}

	pending, err := services.SelectPlan(body.Signup, body.PlanID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Plan selected", pending)
}
