package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/digital-menu/database"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

const testSecret = "rzp_test_secret"

func TestMain(m *testing.M) {
	utils.SilenceLoggers()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedOwner(t *testing.T, db *gorm.DB, email string, plan models.Plan, firstLogin bool) *models.User {
	t.Helper()
	name := "Restaurant " + email
	user := &models.User{
		Name:           "Owner",
		Email:          email,
		PasswordHash:   "hash",
		Phone:          uuid.NewString()[:12],
		RestaurantName: name,
		Subdomain:      utils.Slugify(name),
		Plan:           plan,
		PaymentStatus:  models.PaymentSuccess,
		FirstLogin:     firstLogin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []OwnerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event OwnerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// flakyIdentities fails CreateIdentity while fail is set.
type flakyIdentities struct {
	inner IdentityProvider
	mu    sync.Mutex
	fail  bool
}

func (f *flakyIdentities) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakyIdentities) CreateIdentity(ctx context.Context, email, hash string) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errors.New("identity service unavailable")
	}
	return f.inner.CreateIdentity(ctx, email, hash)
}

func (f *flakyIdentities) Authenticate(ctx context.Context, email, password string) error {
	return f.inner.Authenticate(ctx, email, password)
}

type notification struct {
	owner, event string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) NotifyMenuChange(owner, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{owner: owner, event: event})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
