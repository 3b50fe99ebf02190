package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupInput is what a prospective owner submits on the signup form.
type SignupInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	RestaurantName string `json:"restaurant_name"`
	Password       string `json:"password"`
}

// PendingSignup is the validated signup carried by the client between the
// signup, plan and payment steps. It never contains the password.
type PendingSignup struct {
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	RestaurantName string      `json:"restaurant_name"`
	Plan           models.Plan `json:"plan,omitempty"`
	Price          float64     `json:"price,omitempty"`
}

type SignupResult struct {
	Signup           PendingSignup `json:"signup"`
	SubdomainPreview string        `json:"subdomain_preview"`
}

type SignupService struct {
	db              *gorm.DB
	subdomainSuffix string
}

func NewSignupService(db *gorm.DB, subdomainSuffix string) *SignupService {
	return &SignupService{db: db, subdomainSuffix: subdomainSuffix}
}

// Normalize trims every field and lowercases the email. The password is
// left untouched apart from surrounding whitespace checks in ValidateSignup.
func (in SignupInput) Normalize() SignupInput {
	return SignupInput{
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		RestaurantName: strings.TrimSpace(in.RestaurantName),
		Password:       in.Password,
	}
}

// ValidateSignup runs the local checks; it does not touch the store.
func ValidateSignup(in SignupInput) error {
	in = in.Normalize()
	required := []struct {
		field, value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"restaurant_name", in.RestaurantName},
		{"password", strings.TrimSpace(in.Password)},
	}
	for _, r := range required {
		if r.value == "" {
			return utils.Validation("%s is required", r.field)
		}
	}
	if len(in.Password) < minPasswordLength {
		return utils.Validation("password must be at least %d characters", minPasswordLength)
	}
	if !emailPattern.MatchString(in.Email) {
		return utils.Validation("email is not valid")
	}
	if utils.Slugify(in.RestaurantName) == "" {
		return utils.Validation("restaurant_name must contain letters or digits")
	}
	return nil
}

// CheckDuplicates checks email, phone and restaurant name independently.
// The checks are advisory: a concurrent signup can still win the insert.
func (s *SignupService) CheckDuplicates(ctx context.Context, in SignupInput) error {
	in = in.Normalize()
	checks := []struct {
		field, column, value string
	}{
		{"email", "email", in.Email},
		{"phone", "phone", in.Phone},
		{"restaurant_name", "restaurant_name", in.RestaurantName},
		{"subdomain", "subdomain", utils.Slugify(in.RestaurantName)},
	}
	for _, p := range checks {
		taken, err := s.exists(ctx, p.column, p.value)
		if err != nil {
			return utils.Backend("duplicate check", err)
		}
		if taken {
			return utils.Duplicate(p.field)
		}
	}
	return nil
}

func (s *SignupService) exists(ctx context.Context, column, value string) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Select("id").
		Where(fmt.Sprintf("%s = ?", column), value).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Collect validates a signup and previews its subdomain. Nothing is stored;
// the owner only exists once payment has been verified.
func (s *SignupService) Collect(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := ValidateSignup(in); err != nil {
		return nil, err
	}
	in = in.Normalize()
	if err := s.CheckDuplicates(ctx, in); err != nil {
		return nil, err
	}

	return &SignupResult{
		Signup: PendingSignup{
			Name:           in.Name,
			Email:          in.Email,
			Phone:          in.Phone,
			RestaurantName: in.RestaurantName,
		},
		SubdomainPreview: utils.SubdomainHost(utils.Slugify(in.RestaurantName), s.subdomainSuffix),
	}, nil
}

// SelectPlan attaches a catalog plan and its price to a pending signup.
func SelectPlan(signup PendingSignup, planID string) (*PendingSignup, error) {
	planID = strings.ToLower(strings.TrimSpace(planID))
	if planID == "" {
		return nil, utils.Validation("a plan must be chosen")
	}
	details, ok := models.LookupPlan(models.Plan(planID))
	if !ok {
		return nil, utils.Validation("unknown plan %q", planID)
	}
	signup.Plan = details.ID
	signup.Price = details.Price
	return &signup, nil
}
