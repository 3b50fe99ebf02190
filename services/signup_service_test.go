package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
)

func validSignup() SignupInput {
	return SignupInput{
		Name:           "Joe",
		Email:          "Joe@Example.com",
		Phone:          "9876543210",
		RestaurantName: "Joe's Café!",
		Password:       "secret1",
	}
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup(validSignup()))

	mutations := map[string]func(*SignupInput){
		"missing name":     func(in *SignupInput) { in.Name = "  " },
		"missing phone":    func(in *SignupInput) { in.Phone = "" },
		"short password":   func(in *SignupInput) { in.Password = "12345" },
		"bad email":        func(in *SignupInput) { in.Email = "joe@example" },
		"email with space": func(in *SignupInput) { in.Email = "jo e@example.com" },
		"symbol-only name": func(in *SignupInput) { in.RestaurantName = "!!!" },
	}
	for name, mutate := range mutations {
		in := validSignup()
		mutate(&in)
		err := ValidateSignup(in)
		assert.True(t, errors.Is(err, utils.ErrValidation), name)
	}
}

func TestCollectPreviewsSubdomain(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignupService(db, "menu.example.com")

	result, err := svc.Collect(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, "joes-cafe.menu.example.com", result.SubdomainPreview)
	assert.Equal(t, "joe@example.com", result.Signup.Email)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestCollectRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewSignupService(db, "menu.example.com")
	existing := seedOwner(t, db, "taken@example.com", models.PlanStarter, false)

	in := validSignup()
	in.Email = "TAKEN@example.com"
	_, err := svc.Collect(context.Background(), in)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.KindDuplicate, appErr.Kind)
	assert.Equal(t, "email", appErr.Details["field"])

	in = validSignup()
	in.Phone = existing.Phone
	_, err = svc.Collect(context.Background(), in)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "phone", appErr.Details["field"])

	in = validSignup()
	in.RestaurantName = existing.RestaurantName
	_, err = svc.Collect(context.Background(), in)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "restaurant_name", appErr.Details["field"])
}

func TestSelectPlan(t *testing.T) {
	pending := PendingSignup{Name: "Joe", Email: "joe@example.com"}

	got, err := SelectPlan(pending, "Growth")
	require.NoError(t, err)
	assert.Equal(t, models.PlanGrowth, got.Plan)
	assert.Equal(t, 2499.0, got.Price)
	assert.Empty(t, pending.Plan)

	_, err = SelectPlan(pending, "")
	assert.True(t, errors.Is(err, utils.ErrValidation))
	_, err = SelectPlan(pending, "platinum")
	assert.True(t, errors.Is(err, utils.ErrValidation))
}
