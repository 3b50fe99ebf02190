package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type CustomerController struct {
	Storefront *services.StorefrontService
}

func NewCustomerController(storefront *services.StorefrontService) *CustomerController {
	return &CustomerController{Storefront: storefront}
}

// RegisterCustomer captures a visitor's contact before ordering. A known
// phone for the same restaurant returns the existing customer.
func (cc *CustomerController) RegisterCustomer(c *gin.Context) {
	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer, created, err := cc.Storefront.RegisterCustomer(c.Request.Context(), c.Param("owner"), body.Name, body.Phone)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if created {
		utils.RespondJSON(c, http.StatusCreated, "Customer registered", customer)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Welcome back", customer)
}

// GetAllCustomers is the owner's contact list.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}
	customers, err := cc.Storefront.ListCustomers(c.Request.Context(), owner)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All customers", customers)
}
