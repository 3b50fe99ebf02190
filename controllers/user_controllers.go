package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/middlewares"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

type UserController struct {
	Identities services.IdentityProvider
	Gate       *services.AccessGate
	Reconciler *services.IdentityReconciler
}

func NewUserController(identities services.IdentityProvider, gate *services.AccessGate, reconciler *services.IdentityReconciler) *UserController {
	return &UserController{Identities: identities, Gate: gate, Reconciler: reconciler}
}

var errInvalidCredentials = errors.New("invalid credentials")

// Login checks the password against the auth identity and issues a session
// token. The response also says where the owner should land next.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	ctx := c.Request.Context()
	err := uc.Identities.Authenticate(ctx, email, input.Password)
	if errors.Is(err, services.ErrIdentityMissing) {
		// a paid owner whose identity creation failed; repair in the background
		if _, user, gateErr := uc.Gate.Check(ctx, email, services.RouteRequirement{}); gateErr == nil && user != nil && uc.Reconciler != nil {
			uc.Reconciler.Enqueue(user.Email)
		}
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorLogger.Errorf("Login lookup failed: %v", err)
		}
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, expiresAt, err := utils.GenerateSessionToken(email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	decision, _, err := uc.Gate.Check(ctx, email, services.RouteRequirement{})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("email", email).Info("Login successful")
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":        token,
		"expires_at":   expiresAt,
		"is_logged_in": "true",
		"email":        email,
		"next":         decision,
	})
}

func (uc *UserController) Logout(c *gin.Context) {
	middlewares.RevokeSession(c)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// Session reports the gate decision for the caller so the client can route.
func (uc *UserController) Session(c *gin.Context) {
	decision, user, err := uc.Gate.Check(c.Request.Context(), middlewares.SessionEmail(c), services.RouteRequirement{})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if decision.ClearSession {
		middlewares.RevokeSession(c)
	}

	data := gin.H{"decision": decision}
	if user != nil {
		data["user"] = user.Public()
	}
	utils.RespondJSON(c, http.StatusOK, "Session state", data)
}
