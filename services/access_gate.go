package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

type AccessState string

const (
	StateUnauthenticated AccessState = "unauthenticated"
	StateUnpaid          AccessState = "unpaid"
	StatePlanMismatch    AccessState = "plan_mismatch"
	StateFirstLogin      AccessState = "first_login"
	StateAuthorized      AccessState = "authorized"
)

const (
	RouteLogin      = "/login"
	RoutePricing    = "/pricing"
	RouteOnboarding = "/onboarding"
)

// DashboardRoute is the plan-scoped dashboard URL.
func DashboardRoute(plan models.Plan) string {
	return fmt.Sprintf("/dashboard/%s", plan)
}

// RouteRequirement describes what a protected route needs.
type RouteRequirement struct {
	// Plan, when set, must equal the owner's plan.
	Plan models.Plan
	// Onboarding marks the onboarding route itself, which first-login
	// owners are allowed to reach.
	Onboarding bool
	// DenyOnMismatch renders an access-denied panel instead of sending the
	// owner to their own dashboard.
	DenyOnMismatch bool
}

// AccessDecision is the tagged result every protected route matches on.
type AccessDecision struct {
	State        AccessState `json:"state"`
	Plan         models.Plan `json:"plan,omitempty"`
	Redirect     string      `json:"redirect,omitempty"`
	Denied       bool        `json:"denied,omitempty"`
	ClearSession bool        `json:"clear_session,omitempty"`
}

func (d AccessDecision) Authorized() bool {
	return d.State == StateAuthorized
}

// EvaluateAccess applies the gate rules in order. A nil user means no
// session is present.
func EvaluateAccess(user *models.User, req RouteRequirement) AccessDecision {
	if user == nil {
		return AccessDecision{State: StateUnauthenticated, Redirect: RouteLogin}
	}

	if user.PaymentStatus != models.PaymentSuccess {
		return AccessDecision{State: StateUnpaid, Redirect: RoutePricing}
	}

	plan := ownerPlan(user)
	if req.Plan != "" && !samePlan(req.Plan, plan) {
		return AccessDecision{
			State:    StatePlanMismatch,
			Plan:     plan,
			Redirect: DashboardRoute(plan),
			Denied:   req.DenyOnMismatch,
		}
	}

	if user.FirstLogin && !req.Onboarding {
		return AccessDecision{State: StateFirstLogin, Plan: plan, Redirect: RouteOnboarding}
	}

	return AccessDecision{State: StateAuthorized, Plan: plan}
}

// ownerPlan is the canonical plan of a stored user row.
func ownerPlan(user *models.User) models.Plan {
	plan, _ := models.NormalizePlan(string(user.Plan))
	return plan
}

// samePlan compares a route plan segment with a stored plan. Unknown
// segments never match.
func samePlan(route models.Plan, owner models.Plan) bool {
	p, ok := models.NormalizePlan(string(route))
	return ok && p == owner
}

// AccessGate reads the owner row fresh on every check. The session only
// says who is asking.
type AccessGate struct {
	db *gorm.DB
}

func NewAccessGate(db *gorm.DB) *AccessGate {
	return &AccessGate{db: db}
}

// Check resolves email to the current user row and evaluates req. The
// returned user is nil unless the row was found.
func (g *AccessGate) Check(ctx context.Context, email string, req RouteRequirement) (AccessDecision, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return EvaluateAccess(nil, req), nil, nil
	}

	var user models.User
	err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		decision := EvaluateAccess(nil, req)
		decision.ClearSession = true
		return decision, nil, nil
	}
	if err != nil {
		return AccessDecision{}, nil, utils.Backend("load user", err)
	}

	return EvaluateAccess(&user, req), &user, nil
}
