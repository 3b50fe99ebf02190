package models

import "strings"

// Plan is the canonical subscription tier identifier.
type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanGrowth     Plan = "growth"
	PlanEnterprise Plan = "enterprise"

	DefaultPlan = PlanStarter

	// Unlimited marks a limit that is never reached.
	Unlimited = -1
)

const (
	FeatureQRMenu          = "qr_menu"
	FeatureWhatsAppOrders  = "whatsapp_orders"
	FeatureCustomerList    = "customer_list"
	FeatureLiveUpdates     = "live_updates"
	FeaturePrioritySupport = "priority_support"
)

type PlanDetails struct {
	ID            Plan     `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	MaxCategories int      `json:"max_categories"`
	MaxItems      int      `json:"max_items"`
	Features      []string `json:"features"`
}

// HasFeature reports whether the plan includes the named feature.
func (p PlanDetails) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

var planCatalog = []PlanDetails{
	{
		ID:            PlanStarter,
		Name:          "Starter",
		Price:         999,
		MaxCategories: 10,
		MaxItems:      50,
		Features:      []string{FeatureQRMenu, FeatureWhatsAppOrders},
	},
	{
		ID:            PlanGrowth,
		Name:          "Growth",
		Price:         2499,
		MaxCategories: 25,
		MaxItems:      200,
		Features:      []string{FeatureQRMenu, FeatureWhatsAppOrders, FeatureCustomerList, FeatureLiveUpdates},
	},
	{
		ID:            PlanEnterprise,
		Name:          "Enterprise",
		Price:         4999,
		MaxCategories: Unlimited,
		MaxItems:      Unlimited,
		Features: []string{FeatureQRMenu, FeatureWhatsAppOrders, FeatureCustomerList,
			FeatureLiveUpdates, FeaturePrioritySupport},
	},
}

// legacyPlans maps the identifiers older checkout pages still submit.
var legacyPlans = map[string]Plan{
	"basic":   PlanStarter,
	"premium": PlanGrowth,
	"pro":     PlanEnterprise,
}

// Plans returns a copy of the catalog in display order.
func Plans() []PlanDetails {
	out := make([]PlanDetails, len(planCatalog))
	copy(out, planCatalog)
	return out
}

// LookupPlan is the strict lookup used where a real plan must be named.
func LookupPlan(id Plan) (PlanDetails, bool) {
	for _, p := range planCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return PlanDetails{}, false
}

// NormalizePlan lowercases raw and checks it against the allow-list of
// canonical and legacy identifiers. Unknown or empty values fall back to
// DefaultPlan instead of failing; the boolean reports whether raw was recognised.
func NormalizePlan(raw string) (Plan, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if p, ok := LookupPlan(Plan(v)); ok {
		return p.ID, true
	}
	if p, ok := legacyPlans[v]; ok {
		return p, true
	}
	return DefaultPlan, false
}

// Details returns the catalog entry of p, or the default plan's entry.
func (p Plan) Details() PlanDetails {
	if d, ok := LookupPlan(p); ok {
		return d
	}
	d, _ := LookupPlan(DefaultPlan)
	return d
}
