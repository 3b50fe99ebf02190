package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserData is the pending signup the checkout page posts along with the
// gateway response. It is the only place the clear password travels.
type UserData struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	RestaurantName string  `json:"restaurant_name"`
	Password       string  `json:"password"`
	Plan           string  `json:"plan"`
	Price          float64 `json:"price"`
}

func (u UserData) signupInput() SignupInput {
	return SignupInput{
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		RestaurantName: u.RestaurantName,
		Password:       u.Password,
	}
}

type PaymentVerification struct {
	OrderID   string
	PaymentID string
	Signature string
	UserData  UserData
}

var errInvalidSignature = &utils.AppError{Kind: utils.KindSignature, Message: "Invalid signature"}

// ProvisioningService turns a verified payment into an owner account.
type ProvisioningService struct {
	db         *gorm.DB
	razorpay   *RazorpayService
	signups    *SignupService
	identities IdentityProvider
	reconciler *IdentityReconciler
	events     EventPublisher
	bcryptCost int
}

func NewProvisioningService(
	db *gorm.DB,
	razorpay *RazorpayService,
	signups *SignupService,
	identities IdentityProvider,
	reconciler *IdentityReconciler,
	events EventPublisher,
	bcryptCost int,
) *ProvisioningService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &ProvisioningService{
		db:         db,
		razorpay:   razorpay,
		signups:    signups,
		identities: identities,
		reconciler: reconciler,
		events:     events,
		bcryptCost: bcryptCost,
	}
}

// VerifyAndProvision checks the gateway signature and, only when it
// matches, creates the owner with payment_status=success. Identity creation
// afterwards is best-effort and never undoes the user row.
func (s *ProvisioningService) VerifyAndProvision(ctx context.Context, v PaymentVerification) (*models.User, error) {
	if v.OrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return nil, utils.Validation("Missing payment details")
	}
	if !s.razorpay.VerifyPaymentSignature(v.OrderID, v.PaymentID, v.Signature) {
		utils.ErrorLogger.WithField("order_id", v.OrderID).Warn("Rejected payment with invalid signature")
		return nil, errInvalidSignature
	}

	input := v.UserData.signupInput()
	if err := ValidateSignup(input); err != nil {
		return nil, &utils.AppError{
			Kind:    utils.KindValidation,
			Message: "Invalid user data",
			Details: map[string]interface{}{"reason": err.Error()},
			Err:     err,
		}
	}
	input = input.Normalize()

	plan, recognised := models.NormalizePlan(v.UserData.Plan)
	if !recognised {
		utils.InfoLogger.Printf("Unrecognised plan %q for %s, falling back to %s", v.UserData.Plan, input.Email, plan)
	}

	if err := s.checkOrderUnused(ctx, v.OrderID); err != nil {
		return nil, err
	}
	amount, err := s.paidAmount(ctx, v.OrderID, plan)
	if err != nil {
		return nil, err
	}
	if err := s.signups.CheckDuplicates(ctx, input); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, utils.Backend("hash password", err)
	}

	user := &models.User{
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   hash,
		Phone:          input.Phone,
		RestaurantName: input.RestaurantName,
		Subdomain:      utils.Slugify(input.RestaurantName),
		Plan:           plan,
		PaymentStatus:  models.PaymentSuccess,
		FirstLogin:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		record := models.PaymentRecord{
			UserID:            user.ID,
			RazorpayOrderID:   v.OrderID,
			RazorpayPaymentID: v.PaymentID,
			Plan:              plan,
			Amount:            amount,
			Status:            models.PaymentSuccess,
			PaidAt:            time.Now(),
		}
		return tx.Omit(clause.Associations).Create(&record).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &utils.AppError{Kind: utils.KindDuplicate, Message: "account already exists", Err: err}
		}
		return nil, utils.Backend("create user", err)
	}

	utils.InfoLogger.WithField("email", user.Email).
		WithField("plan", user.Plan).
		Info("Owner provisioned after verified payment")

	s.createIdentity(ctx, user)
	publishBestEffort(s.events, NewOwnerEvent(EventOwnerProvisioned, user, v.OrderID))

	return user, nil
}

func (s *ProvisioningService) createIdentity(ctx context.Context, user *models.User) {
	if s.identities == nil {
		return
	}
	err := s.identities.CreateIdentity(ctx, user.Email, user.PasswordHash)
	if err == nil {
		return
	}

	utils.ErrorLogger.WithField("email", user.Email).
		Errorf("Auth identity creation failed, user row kept: %v", err)
	if s.reconciler != nil {
		s.reconciler.Enqueue(user.Email)
	}
	publishBestEffort(s.events, NewOwnerEvent(EventOwnerIdentityFailed, user, err.Error()))
}

// OpenOrder creates the gateway order for plan and remembers its amount.
func (s *ProvisioningService) OpenOrder(ctx context.Context, plan models.Plan, email string) (*RazorpayOrder, error) {
	order, err := s.razorpay.CreateOrder(ctx, utils.ToPaise(plan.Details().Price), map[string]string{
		"plan":  string(plan),
		"email": email,
	})
	if err != nil {
		return nil, err
	}

	record := models.CheckoutOrder{
		RazorpayOrderID: order.ID,
		Plan:            plan,
		AmountPaise:     order.Amount,
		Email:           strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, utils.Backend("save checkout order", err)
	}
	return order, nil
}

// paidAmount is the amount of the order opened through OpenOrder. A paid
// order must be for the plan being provisioned. Orders opened elsewhere fall
// back to the catalog price.
func (s *ProvisioningService) paidAmount(ctx context.Context, orderID string, plan models.Plan) (float64, error) {
	var order models.CheckoutOrder
	err := s.db.WithContext(ctx).Where("razorpay_order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InfoLogger.WithField("order_id", orderID).Info("No checkout order on record, using catalog price")
		return plan.Details().Price, nil
	}
	if err != nil {
		return 0, utils.Backend("checkout order lookup", err)
	}
	if order.Plan != plan {
		return 0, &utils.AppError{
			Kind:    utils.KindValidation,
			Message: "Plan does not match the paid order",
			Details: map[string]interface{}{"order_plan": order.Plan, "plan": plan},
		}
	}
	return utils.FromPaise(order.AmountPaise), nil
}

func (s *ProvisioningService) checkOrderUnused(ctx context.Context, orderID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("razorpay_order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return utils.Backend("payment lookup", err)
	}
	if count > 0 {
		return utils.Duplicate("razorpay_order_id")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
