package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type PaymentController struct {
	Razorpay     *services.RazorpayService
	Provisioning *services.ProvisioningService
}

func NewPaymentController(razorpay *services.RazorpayService, provisioning *services.ProvisioningService) *PaymentController {
	return &PaymentController{Razorpay: razorpay, Provisioning: provisioning}
}

// CreateOrder opens a gateway order for the chosen plan's price.
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var body struct {
		Plan  string `json:"plan"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	plan, ok := models.NormalizePlan(body.Plan)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, utils.Validation("unknown plan %q", body.Plan))
		return
	}
	details := plan.Details()

	order, err := pc.Provisioning.OpenOrder(c.Request.Context(), plan, body.Email)
	if err != nil {
		utils.ErrorLogger.Errorf("Razorpay order for plan %s failed: %v", plan, err)
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order created", gin.H{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   pc.Razorpay.KeyID(),
		"plan":     details,
	})
}

type verifyRequest struct {
	OrderID   string            `json:"razorpay_order_id"`
	PaymentID string            `json:"razorpay_payment_id"`
	Signature string            `json:"razorpay_signature"`
	UserData  services.UserData `json:"userData"`
}

// Verify is the checkout callback. Its response shape is consumed as is by
// the payment page: {success, user} or {error, details?}.
func (pc *PaymentController) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment details", "details": err.Error()})
		return
	}

	user, err := pc.Provisioning.VerifyAndProvision(c.Request.Context(), services.PaymentVerification{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserData:  req.UserData,
	})
	if err != nil {
		writeVerifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Public(),
	})
}

func writeVerifyError(c *gin.Context, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Kind == utils.KindBackend {
		detail := err.Error()
		if appErr != nil && appErr.Err != nil {
			detail = appErr.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": detail})
		return
	}

	body := gin.H{"error": appErr.Message}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.JSON(http.StatusBadRequest, body)
}
