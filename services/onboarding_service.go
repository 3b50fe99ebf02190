package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

// OnboardingStep is one screen of the first-login walkthrough.
type OnboardingStep struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Input    string `json:"input,omitempty"`
	Required bool   `json:"required"`
}

var onboardingSteps = []OnboardingStep{
	{Key: "welcome", Title: "Welcome aboard", Body: "Your payment went through and your menu space is ready."},
	{Key: "menu", Title: "Build your menu", Body: "Create categories, then add dishes with prices and photos."},
	{Key: "share", Title: "Share it", Body: "Customers open your menu from your subdomain or QR code."},
	{Key: "restaurant_name", Title: "Confirm your restaurant name", Body: "This is shown at the top of your public menu.",
		Input: "restaurant_name", Required: true},
}

// OnboardingView is what the onboarding page needs: either the steps or,
// for an owner who already finished, where to go instead.
type OnboardingView struct {
	Steps    []OnboardingStep `json:"steps,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

type OnboardingService struct {
	db     *gorm.DB
	events EventPublisher
}

func NewOnboardingService(db *gorm.DB, events EventPublisher) *OnboardingService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &OnboardingService{db: db, events: events}
}

// View sends owners who are past first login to their dashboard.
func (s *OnboardingService) View(user *models.User) OnboardingView {
	if !user.FirstLogin {
		return OnboardingView{Redirect: DashboardRoute(ownerPlan(user))}
	}
	steps := make([]OnboardingStep, len(onboardingSteps))
	copy(steps, onboardingSteps)
	return OnboardingView{Steps: steps}
}

// Complete stores the restaurant name and clears first_login in a single
// update. Nothing ever sets the flag back.
func (s *OnboardingService) Complete(ctx context.Context, user *models.User, restaurantName string) (string, error) {
	restaurantName = strings.TrimSpace(restaurantName)
	if restaurantName == "" {
		return "", utils.Validation("restaurant_name is required")
	}

	if restaurantName != user.RestaurantName {
		var taken int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("restaurant_name = ? AND id <> ?", restaurantName, user.ID).
			Count(&taken).Error; err != nil {
			return "", utils.Backend("duplicate check", err)
		}
		if taken > 0 {
			return "", utils.Duplicate("restaurant_name")
		}
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"restaurant_name": restaurantName,
			"first_login":     false,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return "", utils.Duplicate("restaurant_name")
		}
		return "", utils.Backend("complete onboarding", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", utils.NotFound("user")
	}

	user.RestaurantName = restaurantName
	user.FirstLogin = false

	utils.InfoLogger.WithField("email", user.Email).Info("Onboarding completed")
	publishBestEffort(s.events, NewOwnerEvent(EventOwnerOnboarded, user, ""))

	return DashboardRoute(ownerPlan(user)), nil
}
