package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/digital-menu/config"
	"github.com/yeremiapane/digital-menu/database"
	"github.com/yeremiapane/digital-menu/realtime"
	"github.com/yeremiapane/digital-menu/router"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
)

func init() {
	// .env must be loaded before the loggers read LOG_FORMAT
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.ErrorLogger.Printf("Warning: error loading .env: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()
	for _, key := range cfg.Missing() {
		utils.ErrorLogger.Printf("Warning: required environment variable %s is not set", key)
	}
	if err := cfg.CheckRelease(); err != nil {
		utils.ErrorLogger.Fatalf("Refusing to start: %v", err)
	}

	utils.ConfigureSessions(cfg.JWTSecret, cfg.SessionTTL)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		utils.InfoLogger.Println("Redis not available, public menu cache disabled")
	}

	events := services.NewEventPublisher(cfg.RabbitMQURL)
	identities := services.NewGormIdentityProvider(db)

	reconciler := services.NewIdentityReconciler(db, identities, cfg.ReconcileInterval)
	reconciler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneBlacklist(ctx, time.Hour)

	r := router.SetupRouter(router.Deps{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Events:     events,
		Identities: identities,
		Reconciler: reconciler,
		Hub:        realtime.NewMenuHub(),
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Setting trusted proxies failed: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	err = runServer(ctx, srv, 10*time.Second, reconciler.Stop)
	if err != nil {
		utils.ErrorLogger.Fatal(err)
	}
	utils.InfoLogger.Println("Server stopped")
}

// runServer serves until ctx is cancelled, then drains open requests for
// at most grace and runs cleanup. cleanup also runs when the listener fails.
func runServer(ctx context.Context, srv *http.Server, grace time.Duration, cleanup func()) error {
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func pruneBlacklist(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := utils.PruneBlacklist(now); n > 0 {
				utils.InfoLogger.Debugf("Pruned %d revoked session tokens", n)
			}
		}
	}
}
