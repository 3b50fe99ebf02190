package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

type storefrontFixture struct {
	db        *gorm.DB
	dashboard *DashboardService
	store     *StorefrontService
	owner     *models.User
	soup      *models.MenuItem
	curry     *models.MenuItem
	hidden    *models.MenuItem
}

func newStorefrontFixture(t *testing.T) *storefrontFixture {
	t.Helper()
	db := newTestDB(t)
	f := &storefrontFixture{
		db:        db,
		dashboard: NewDashboardService(db, nil, nil),
		store:     NewStorefrontService(db, NewMenuCache(nil, 0)),
		owner:     seedOwner(t, db, "owner@example.com", models.PlanGrowth, false),
	}
	ctx := context.Background()

	starters, err := f.dashboard.CreateCategory(ctx, f.owner, CategoryInput{Name: "Starters"})
	require.NoError(t, err)
	mains, err := f.dashboard.CreateCategory(ctx, f.owner, CategoryInput{Name: "Mains"})
	require.NoError(t, err)
	_, err = f.dashboard.CreateCategory(ctx, f.owner, CategoryInput{Name: "Empty"})
	require.NoError(t, err)

	f.soup, err = f.dashboard.CreateItem(ctx, f.owner, ItemInput{CategoryID: starters.ID, Name: "Tomato Soup", Price: price(120.50), ImageURL: text("https://cdn.example.com/soup.jpg")})
	require.NoError(t, err)
	f.curry, err = f.dashboard.CreateItem(ctx, f.owner, ItemInput{CategoryID: mains.ID, Name: "Fish Curry", Price: price(349.99)})
	require.NoError(t, err)
	f.hidden, err = f.dashboard.CreateItem(ctx, f.owner, ItemInput{CategoryID: mains.ID, Name: "Seasonal", Price: price(500), IsAvailable: flag(false)})
	require.NoError(t, err)
	return f
}

func TestResolveOwner(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()

	bySlug, err := f.store.ResolveOwner(ctx, f.owner.Subdomain)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, bySlug.ID)

	byEmail, err := f.store.ResolveOwner(ctx, " OWNER@example.com ")
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, byEmail.ID)

	_, err = f.store.ResolveOwner(ctx, "nobody")
	assert.True(t, errors.Is(err, utils.ErrNotFound))

	unpaid := seedOwner(t, f.db, "unpaid@example.com", models.PlanStarter, true)
	require.NoError(t, f.db.Model(unpaid).Update("payment_status", models.PaymentPending).Error)
	_, err = f.store.ResolveOwner(ctx, unpaid.Subdomain)
	assert.True(t, errors.Is(err, utils.ErrNotFound))
}

func TestPublicMenuShowsAvailableItems(t *testing.T) {
	f := newStorefrontFixture(t)

	menu, err := f.store.Menu(context.Background(), f.owner.Subdomain)
	require.NoError(t, err)
	assert.Equal(t, f.owner.RestaurantName, menu.RestaurantName)
	assert.Equal(t, models.PlanGrowth, menu.Plan)
	assert.Nil(t, menu.Profile)

	require.Len(t, menu.Categories, 3)
	assert.Equal(t, "Starters", menu.Categories[0].Name)
	assert.Len(t, menu.Categories[0].Items, 1)

	mains := menu.Categories[1]
	require.Len(t, mains.Items, 1)
	assert.Equal(t, f.curry.ID, mains.Items[0].ID)

	assert.NotNil(t, menu.Categories[2].Items)
	assert.Empty(t, menu.Categories[2].Items)
}

func TestRegisterCustomerFindsExisting(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()

	first, created, err := f.store.RegisterCustomer(ctx, f.owner.Subdomain, "Asha", "9876543210")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := f.store.RegisterCustomer(ctx, f.owner.Email, "Asha K", " 9876543210 ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Asha", again.Name)

	_, _, err = f.store.RegisterCustomer(ctx, f.owner.Subdomain, "", "123")
	assert.True(t, errors.Is(err, utils.ErrValidation))

	customers, err := f.store.ListCustomers(ctx, f.owner)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestQuote(t *testing.T) {
	f := newStorefrontFixture(t)

	quote, err := f.store.Quote(context.Background(), f.owner.Subdomain, []QuoteLine{
		{MenuItemID: f.soup.ID, Quantity: 2},
		{MenuItemID: f.curry.ID, Quantity: 1},
		{MenuItemID: f.soup.ID, Quantity: 1},
		{MenuItemID: f.hidden.ID, Quantity: 1},
		{MenuItemID: 9999, Quantity: 1},
		{MenuItemID: f.curry.ID, Quantity: 0},
	})
	require.NoError(t, err)

	require.Len(t, quote.Lines, 2)
	assert.Equal(t, 3, quote.Lines[0].Quantity)
	assert.Equal(t, 361.50, quote.Lines[0].Subtotal)
	assert.Equal(t, "https://cdn.example.com/soup.jpg", quote.Lines[0].ImageURL)
	assert.Empty(t, quote.Lines[1].ImageURL)
	assert.Equal(t, 4, quote.Count)
	assert.Equal(t, int64(71149), quote.TotalPaise)
	assert.Equal(t, 711.49, quote.Total)
	assert.Equal(t, []uint{f.hidden.ID, 9999}, quote.Skipped)

	_, err = f.store.Quote(context.Background(), f.owner.Subdomain, nil)
	assert.True(t, errors.Is(err, utils.ErrValidation))
}
