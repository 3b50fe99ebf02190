package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/digital-menu/cart"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

// PublicCategory is a category with the items a customer can order now.
type PublicCategory struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	DisplayOrder int               `json:"display_order"`
	Items        []models.MenuItem `json:"items"`
}

// PublicMenu is the read-only storefront of one owner.
type PublicMenu struct {
	RestaurantName string                    `json:"restaurant_name"`
	Subdomain      string                    `json:"subdomain"`
	Phone          string                    `json:"phone"`
	Plan           models.Plan               `json:"plan"`
	Profile        *models.RestaurantProfile `json:"profile,omitempty"`
	Categories     []PublicCategory          `json:"categories"`
}

type QuoteLine struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type Quote struct {
	Lines      []cart.Line `json:"lines"`
	Count      int         `json:"count"`
	Total      float64     `json:"total"`
	TotalPaise int64       `json:"total_paise"`
	Display    string      `json:"display_total"`
	Skipped    []uint      `json:"skipped,omitempty"`
}

type StorefrontService struct {
	db    *gorm.DB
	cache *MenuCache
}

func NewStorefrontService(db *gorm.DB, cache *MenuCache) *StorefrontService {
	return &StorefrontService{db: db, cache: cache}
}

// ResolveOwner accepts either a subdomain slug or an owner email. Owners
// without a successful payment are not published.
func (s *StorefrontService) ResolveOwner(ctx context.Context, ident string) (*models.User, error) {
	ident = strings.ToLower(strings.TrimSpace(ident))
	if ident == "" {
		return nil, utils.NotFound("restaurant")
	}

	column := "subdomain"
	if strings.Contains(ident, "@") {
		column = "email"
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where(column+" = ? AND payment_status = ?", ident, models.PaymentSuccess).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("restaurant")
	}
	if err != nil {
		return nil, utils.Backend("load restaurant", err)
	}
	return &user, nil
}

// Menu returns the public menu of ident, from cache when possible.
func (s *StorefrontService) Menu(ctx context.Context, ident string) (*PublicMenu, error) {
	var cached PublicMenu
	if s.cache.Get(ctx, ident, &cached) {
		return &cached, nil
	}

	owner, err := s.ResolveOwner(ctx, ident)
	if err != nil {
		return nil, err
	}
	menu, err := s.buildMenu(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, menu, owner.Email, owner.Subdomain)
	return menu, nil
}

func (s *StorefrontService) buildMenu(ctx context.Context, owner *models.User) (*PublicMenu, error) {
	db := s.db.WithContext(ctx)

	menu := &PublicMenu{
		RestaurantName: owner.RestaurantName,
		Subdomain:      owner.Subdomain,
		Phone:          owner.Phone,
		Plan:           ownerPlan(owner),
		Categories:     []PublicCategory{},
	}

	var profile models.RestaurantProfile
	err := db.Where("owner_email = ?", owner.Email).First(&profile).Error
	switch {
	case err == nil:
		menu.Profile = &profile
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, utils.Backend("load profile", err)
	}

	var categories []models.MenuCategory
	if err := db.Where("owner_email = ?", owner.Email).
		Order("display_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, utils.Backend("load categories", err)
	}

	var items []models.MenuItem
	if err := db.Where("owner_email = ? AND is_available = ?", owner.Email, true).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, utils.Backend("load items", err)
	}

	byCategory := make(map[uint][]models.MenuItem)
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}
	for _, c := range categories {
		list := byCategory[c.ID]
		if list == nil {
			list = []models.MenuItem{}
		}
		menu.Categories = append(menu.Categories, PublicCategory{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			DisplayOrder: c.DisplayOrder,
			Items:        list,
		})
	}
	return menu, nil
}

// RegisterCustomer finds a customer by (phone, owner) or creates one. The
// lookup and insert are not atomic; a concurrent duplicate only yields a
// second identical contact row.
func (s *StorefrontService) RegisterCustomer(ctx context.Context, ident, name, phone string) (*models.Customer, bool, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, false, utils.Validation("name is required")
	}
	if phone == "" {
		return nil, false, utils.Validation("phone is required")
	}

	owner, err := s.ResolveOwner(ctx, ident)
	if err != nil {
		return nil, false, err
	}

	db := s.db.WithContext(ctx)
	var customer models.Customer
	err = db.Where("phone = ? AND owner_email = ?", phone, owner.Email).First(&customer).Error
	if err == nil {
		return &customer, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, utils.Backend("load customer", err)
	}

	customer = models.Customer{OwnerEmail: owner.Email, Phone: phone, Name: name}
	if err := db.Create(&customer).Error; err != nil {
		return nil, false, utils.Backend("create customer", err)
	}
	utils.InfoLogger.WithField("owner", owner.Email).Debugf("Registered customer %d", customer.ID)
	return &customer, true, nil
}

// ListCustomers is the owner-side view of captured contacts.
func (s *StorefrontService) ListCustomers(ctx context.Context, owner *models.User) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).
		Where("owner_email = ?", owner.Email).
		Order("created_at DESC").
		Find(&customers).Error; err != nil {
		return nil, utils.Backend("list customers", err)
	}
	return customers, nil
}

// Quote prices a basket against the owner's current available items.
// Unknown or unavailable items are reported in Skipped.
func (s *StorefrontService) Quote(ctx context.Context, ident string, lines []QuoteLine) (*Quote, error) {
	if len(lines) == 0 {
		return nil, utils.Validation("items are required")
	}
	owner, err := s.ResolveOwner(ctx, ident)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).
		Where("owner_email = ? AND is_available = ? AND id IN ?", owner.Email, true, ids).
		Find(&items).Error; err != nil {
		return nil, utils.Backend("load items", err)
	}
	byID := make(map[uint]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	c := cart.New()
	var skipped []uint
	for _, l := range lines {
		item, ok := byID[l.MenuItemID]
		if !ok {
			skipped = append(skipped, l.MenuItemID)
			continue
		}
		if l.Quantity <= 0 {
			continue
		}
		c.Add(cart.Item{MenuItemID: item.ID, Name: item.Name, ImageURL: item.ImageURL, Price: item.Price, Quantity: l.Quantity})
	}

	return &Quote{
		Lines:      c.Lines(),
		Count:      c.Count(),
		Total:      c.Total(),
		TotalPaise: c.TotalPaise(),
		Display:    utils.FormatCurrencyINR(c.Total()),
		Skipped:    skipped,
	}, nil
}
