package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

// GateScope says which requirement a guarded route group has.
type GateScope int

const (
	// ScopeAnyPlan needs a paid, onboarded owner of any plan.
	ScopeAnyPlan GateScope = iota
	// ScopePlanFromPath also needs the :plan segment to match the owner's plan.
	ScopePlanFromPath
	// ScopeOnboarding is the onboarding route, open to first-login owners.
	ScopeOnboarding
)

var gateStatus = map[services.AccessState]int{
	services.StateUnauthenticated: http.StatusUnauthorized,
	services.StateUnpaid:          http.StatusPaymentRequired,
	services.StatePlanMismatch:    http.StatusForbidden,
	services.StateFirstLogin:      http.StatusForbidden,
}

var gateMessage = map[services.AccessState]string{
	services.StateUnauthenticated: "Please log in to continue",
	services.StateUnpaid:          "Choose a plan to activate your account",
	services.StatePlanMismatch:    "This dashboard belongs to another plan",
	services.StateFirstLogin:      "Finish onboarding first",
}

func requirementFor(c *gin.Context, scope GateScope) services.RouteRequirement {
	switch scope {
	case ScopePlanFromPath:
		return services.RouteRequirement{Plan: models.Plan(c.Param("plan"))}
	case ScopeOnboarding:
		return services.RouteRequirement{Onboarding: true}
	default:
		return services.RouteRequirement{}
	}
}

// AccessGate is the one guard in front of every protected route. It
// re-reads the owner row on each request and aborts with the decision
// unless the owner is authorized.
func AccessGate(gate *services.AccessGate, scope GateScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, user, err := gate.Check(c.Request.Context(), SessionEmail(c), requirementFor(c, scope))
		if err != nil {
			utils.ErrorLogger.Errorf("Access gate failed for %s: %v", c.Request.URL.Path, err)
			utils.RespondAppError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextDecision, decision)
		if decision.ClearSession {
			RevokeSession(c)
		}

		if !decision.Authorized() {
			c.AbortWithStatusJSON(gateStatus[decision.State], utils.JSONResponse{
				Status:  false,
				Message: gateMessage[decision.State],
				Data:    decision,
			})
			return
		}

		c.Set(ContextOwner, user)
		c.Next()
	}
}

// RequireFeature rejects owners whose plan does not include feature. It
// must run after AccessGate.
func RequireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := CurrentOwner(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired session"))
			c.Abort()
			return
		}
		plan, _ := models.NormalizePlan(string(owner.Plan))
		if !plan.Details().HasFeature(feature) {
			utils.RespondError(c, http.StatusForbidden, &utils.AppError{
				Kind:    utils.KindAuthorization,
				Message: "Your plan does not include " + feature,
				Details: map[string]interface{}{"feature": feature, "plan": plan},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
