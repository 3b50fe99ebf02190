package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/middlewares"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
)

// ownerFrom returns the owner loaded by the access gate, writing a 401
// when the route was mounted without it.
func ownerFrom(c *gin.Context) (*models.User, bool) {
	owner, ok := middlewares.CurrentOwner(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("no authorized owner on request"))
		return nil, false
	}
	return owner, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.Validation("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
