package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

// ReconcileMetrics counts reconciliation outcomes since start.
type ReconcileMetrics struct {
	Queued   int64 `json:"queued"`
	Repaired int64 `json:"repaired"`
	Failed   int64 `json:"failed"`
}

// IdentityReconciler repairs owners whose user row exists without a login
// identity, the partial failure left behind when identity creation fails
// after a verified payment.
type IdentityReconciler struct {
	db         *gorm.DB
	identities IdentityProvider
	interval   time.Duration

	mutex      sync.Mutex
	retryQueue []string
	metrics    ReconcileMetrics

	stop chan struct{}
	once sync.Once
}

func NewIdentityReconciler(db *gorm.DB, identities IdentityProvider, interval time.Duration) *IdentityReconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &IdentityReconciler{
		db:         db,
		identities: identities,
		interval:   interval,
		retryQueue: make([]string, 0),
		stop:       make(chan struct{}),
	}
}

// Start runs the retry loop until Stop is called.
func (r *IdentityReconciler) Start() {
	go r.loop()
	utils.InfoLogger.Printf("Identity reconciler started (interval %s)", r.interval)
}

func (r *IdentityReconciler) Stop() {
	r.once.Do(func() { close(r.stop) })
}

// Enqueue adds an owner email once; repeated calls are ignored.
func (r *IdentityReconciler) Enqueue(email string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if contains(r.retryQueue, email) {
		return
	}
	r.retryQueue = append(r.retryQueue, email)
	r.metrics.Queued++
	utils.InfoLogger.Printf("Queued identity repair for %s", email)
}

// Pending is the out-of-band report of owners still missing an identity.
func (r *IdentityReconciler) Pending() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]string, len(r.retryQueue))
	copy(out, r.retryQueue)
	return out
}

func (r *IdentityReconciler) Metrics() ReconcileMetrics {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.metrics
}

func (r *IdentityReconciler) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(context.Background())
		case <-r.stop:
			return
		}
	}
}

// RunOnce attempts every queued repair and keeps the ones that still fail.
func (r *IdentityReconciler) RunOnce(ctx context.Context) {
	r.mutex.Lock()
	batch := r.retryQueue
	r.retryQueue = make([]string, 0, len(batch))
	r.mutex.Unlock()

	if len(batch) == 0 {
		return
	}
	utils.InfoLogger.Printf("Processing identity repair queue with %d owners", len(batch))

	var retry []string
	for _, email := range batch {
		if err := r.repair(ctx, email); err != nil {
			utils.ErrorLogger.Printf("Identity repair for %s failed: %v", email, err)
			retry = append(retry, email)
			continue
		}
		r.mutex.Lock()
		r.metrics.Repaired++
		r.mutex.Unlock()
	}

	r.mutex.Lock()
	r.metrics.Failed += int64(len(retry))
	for _, email := range retry {
		if !contains(r.retryQueue, email) {
			r.retryQueue = append(r.retryQueue, email)
		}
	}
	r.mutex.Unlock()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (r *IdentityReconciler) repair(ctx context.Context, email string) error {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	return r.identities.CreateIdentity(ctx, user.Email, user.PasswordHash)
}
