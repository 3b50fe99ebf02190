package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const identityProviderLocal = "password"

// IdentityProvider manages login identities keyed by email.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, passwordHash string) error
	Authenticate(ctx context.Context, email, password string) error
}

var (
	ErrIdentityMissing    = errors.New("identity not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// GormIdentityProvider keeps identities in the auth_identities table.
type GormIdentityProvider struct {
	db *gorm.DB
}

func NewGormIdentityProvider(db *gorm.DB) *GormIdentityProvider {
	return &GormIdentityProvider{db: db}
}

// CreateIdentity is idempotent: an existing identity for email is left as is.
func (p *GormIdentityProvider) CreateIdentity(ctx context.Context, email, passwordHash string) error {
	identity := models.AuthIdentity{
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Provider:     identityProviderLocal,
	}
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&identity).Error
}

func (p *GormIdentityProvider) Authenticate(ctx context.Context, email, password string) error {
	var identity models.AuthIdentity
	err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrIdentityMissing
	}
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(identity.PasswordHash, password) {
		return ErrInvalidCredentials
	}
	return nil
}
