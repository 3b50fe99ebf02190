package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/realtime"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuNotifier is told about every change to an owner's menu.
type MenuNotifier interface {
	NotifyMenuChange(owner, event string, data interface{})
}

// CategoryInput carries create and update fields. A nil Description leaves
// the stored one untouched; an empty string clears it.
type CategoryInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// ItemInput carries create and update fields. Nil pointers leave the
// stored value alone on update.
type ItemInput struct {
	CategoryID  uint     `json:"category_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	IsVeg       *bool    `json:"is_veg"`
	IsNonVeg    *bool    `json:"is_non_veg"`
	IsAvailable *bool    `json:"is_available"`
}

type ProfileInput struct {
	Cuisine      string `json:"cuisine"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	OpeningHours string `json:"opening_hours"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Amenities    string `json:"amenities"`
	LogoURL      string `json:"logo_url"`
}

// UsageLine is one entity's count against its plan limit. Limit is -1
// for unlimited plans.
type UsageLine struct {
	Count int64 `json:"count"`
	Limit int   `json:"limit"`
}

type Usage struct {
	Plan       models.Plan `json:"plan"`
	Categories UsageLine   `json:"categories"`
	Items      UsageLine   `json:"items"`
}

// DashboardService is the owner-scoped menu editor. Every query filters on
// the owner's email.
type DashboardService struct {
	db       *gorm.DB
	cache    *MenuCache
	notifier MenuNotifier
}

func NewDashboardService(db *gorm.DB, cache *MenuCache, notifier MenuNotifier) *DashboardService {
	return &DashboardService{db: db, cache: cache, notifier: notifier}
}

// checkCapacity rejects a create once the owner holds limit rows of model.
// It runs inside the create transaction; two concurrent creates can still
// both pass, which overshoots the quota by one at most per racer.
func checkCapacity(tx *gorm.DB, model interface{}, ownerEmail, entity string, limit int) error {
	if limit == models.Unlimited {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("owner_email = ?", ownerEmail).Count(&count).Error; err != nil {
		return utils.Backend("count "+entity, err)
	}
	if count >= int64(limit) {
		return utils.Capacity(entity, count, limit)
	}
	return nil
}

// nextDisplayOrder is max(existing)+1, or 0 for the first category. Gaps
// left by deletes are not reused.
func nextDisplayOrder(tx *gorm.DB, ownerEmail string) (int, error) {
	var maxOrder sql.NullInt64
	err := tx.Model(&models.MenuCategory{}).
		Where("owner_email = ?", ownerEmail).
		Select("MAX(display_order)").
		Row().
		Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

func (s *DashboardService) changed(ctx context.Context, owner *models.User, event string, data interface{}) {
	s.cache.Invalidate(ctx, owner.Email, owner.Subdomain)
	if s.notifier != nil {
		s.notifier.NotifyMenuChange(owner.Email, event, data)
	}
}

func (s *DashboardService) Usage(ctx context.Context, owner *models.User) (*Usage, error) {
	details := ownerPlan(owner).Details()
	usage := &Usage{
		Plan:       details.ID,
		Categories: UsageLine{Limit: details.MaxCategories},
		Items:      UsageLine{Limit: details.MaxItems},
	}
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.MenuCategory{}).Where("owner_email = ?", owner.Email).
		Count(&usage.Categories.Count).Error; err != nil {
		return nil, utils.Backend("count categories", err)
	}
	if err := db.Model(&models.MenuItem{}).Where("owner_email = ?", owner.Email).
		Count(&usage.Items.Count).Error; err != nil {
		return nil, utils.Backend("count items", err)
	}
	return usage, nil
}

// Categories

func (s *DashboardService) ListCategories(ctx context.Context, owner *models.User) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	if err := s.db.WithContext(ctx).
		Where("owner_email = ?", owner.Email).
		Order("display_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, utils.Backend("list categories", err)
	}
	return categories, nil
}

func (s *DashboardService) CreateCategory(ctx context.Context, owner *models.User, in CategoryInput) (*models.MenuCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.Validation("name is required")
	}

	category := &models.MenuCategory{
		OwnerEmail:  owner.Email,
		Name:        name,
		Description: trimmed(in.Description),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCapacity(tx, &models.MenuCategory{}, owner.Email, "categories", ownerPlan(owner).Details().MaxCategories); err != nil {
			return err
		}
		order, err := nextDisplayOrder(tx, owner.Email)
		if err != nil {
			return utils.Backend("display order", err)
		}
		category.DisplayOrder = order
		if err := tx.Create(category).Error; err != nil {
			return utils.Backend("create category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, owner, realtime.EventCategoryChanged, category)
	return category, nil
}

func (s *DashboardService) findCategory(ctx context.Context, owner *models.User, id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_email = ?", id, owner.Email).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("category")
	}
	if err != nil {
		return nil, utils.Backend("load category", err)
	}
	return &category, nil
}

// UpdateCategory never consults the plan limit.
func (s *DashboardService) UpdateCategory(ctx context.Context, owner *models.User, id uint, in CategoryInput) (*models.MenuCategory, error) {
	category, err := s.findCategory(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		category.Name = name
	}
	if in.Description != nil {
		category.Description = trimmed(in.Description)
	}
	if in.DisplayOrder != nil {
		if *in.DisplayOrder < 0 {
			return nil, utils.Validation("display_order must not be negative")
		}
		category.DisplayOrder = *in.DisplayOrder
	}

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, utils.Backend("update category", err)
	}
	s.changed(ctx, owner, realtime.EventCategoryChanged, category)
	return category, nil
}

// DeleteCategory removes the category and its items together.
func (s *DashboardService) DeleteCategory(ctx context.Context, owner *models.User, id uint) error {
	category, err := s.findCategory(ctx, owner, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ? AND owner_email = ?", category.ID, owner.Email).
			Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return utils.Backend("delete category", err)
	}
	s.changed(ctx, owner, realtime.EventCategoryChanged, map[string]interface{}{"deleted": category.ID})
	return nil
}

// Items

func (s *DashboardService) ListItems(ctx context.Context, owner *models.User, categoryID uint) ([]models.MenuItem, error) {
	q := s.db.WithContext(ctx).Where("owner_email = ?", owner.Email)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var items []models.MenuItem
	if err := q.Order("category_id ASC, id ASC").Find(&items).Error; err != nil {
		return nil, utils.Backend("list items", err)
	}
	return items, nil
}

func (s *DashboardService) CreateItem(ctx context.Context, owner *models.User, in ItemInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.Validation("name is required")
	}
	if in.CategoryID == 0 {
		return nil, utils.Validation("category_id is required")
	}
	if in.Price == nil {
		return nil, utils.Validation("price is required")
	}
	if *in.Price < 0 {
		return nil, utils.Validation("price must not be negative")
	}
	if _, err := s.findCategory(ctx, owner, in.CategoryID); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		OwnerEmail:  owner.Email,
		CategoryID:  in.CategoryID,
		Name:        name,
		Price:       *in.Price,
		IsAvailable: true,
	}
	applyItemFlags(item, in)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCapacity(tx, &models.MenuItem{}, owner.Email, "items", ownerPlan(owner).Details().MaxItems); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return utils.Backend("create item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.changed(ctx, owner, realtime.EventItemChanged, item)
	return item, nil
}

func applyItemFlags(item *models.MenuItem, in ItemInput) {
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.IsVeg != nil {
		item.IsVeg = *in.IsVeg
	}
	if in.IsNonVeg != nil {
		item.IsNonVeg = *in.IsNonVeg
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
}

func (s *DashboardService) findItem(ctx context.Context, owner *models.User, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_email = ?", id, owner.Email).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("item")
	}
	if err != nil {
		return nil, utils.Backend("load item", err)
	}
	return &item, nil
}

func (s *DashboardService) UpdateItem(ctx context.Context, owner *models.User, id uint, in ItemInput) (*models.MenuItem, error) {
	item, err := s.findItem(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		item.Name = name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, utils.Validation("price must not be negative")
		}
		item.Price = *in.Price
	}
	if in.CategoryID != 0 && in.CategoryID != item.CategoryID {
		if _, err := s.findCategory(ctx, owner, in.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = in.CategoryID
	}
	applyItemFlags(item, in)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return nil, utils.Backend("update item", err)
	}
	s.changed(ctx, owner, realtime.EventItemChanged, item)
	return item, nil
}

func (s *DashboardService) SetItemAvailability(ctx context.Context, owner *models.User, id uint, available bool) (*models.MenuItem, error) {
	return s.UpdateItem(ctx, owner, id, ItemInput{IsAvailable: &available})
}

func (s *DashboardService) DeleteItem(ctx context.Context, owner *models.User, id uint) error {
	item, err := s.findItem(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return utils.Backend("delete item", err)
	}
	s.changed(ctx, owner, realtime.EventItemChanged, map[string]interface{}{"deleted": item.ID})
	return nil
}

// Profile

// GetProfile returns an empty profile for owners who never saved one.
func (s *DashboardService) GetProfile(ctx context.Context, owner *models.User) (*models.RestaurantProfile, error) {
	var profile models.RestaurantProfile
	err := s.db.WithContext(ctx).Where("owner_email = ?", owner.Email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.RestaurantProfile{OwnerEmail: owner.Email}, nil
	}
	if err != nil {
		return nil, utils.Backend("load profile", err)
	}
	return &profile, nil
}

// SaveProfile upserts on owner email.
func (s *DashboardService) SaveProfile(ctx context.Context, owner *models.User, in ProfileInput) (*models.RestaurantProfile, error) {
	if in.ContactEmail != "" && !emailPattern.MatchString(strings.TrimSpace(in.ContactEmail)) {
		return nil, utils.Validation("contact_email is not valid")
	}

	profile := &models.RestaurantProfile{
		OwnerEmail:   owner.Email,
		Cuisine:      strings.TrimSpace(in.Cuisine),
		Description:  strings.TrimSpace(in.Description),
		Address:      strings.TrimSpace(in.Address),
		OpeningHours: strings.TrimSpace(in.OpeningHours),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		Amenities:    strings.TrimSpace(in.Amenities),
		LogoURL:      strings.TrimSpace(in.LogoURL),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cuisine", "description", "address", "opening_hours",
			"contact_phone", "contact_email", "amenities", "logo_url", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return nil, utils.Backend("save profile", err)
	}

	saved, err := s.GetProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, owner, realtime.EventProfileChanged, saved)
	return saved, nil
}
