package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/digital-menu/config"
	"github.com/yeremiapane/digital-menu/controllers"
	"github.com/yeremiapane/digital-menu/middlewares"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/realtime"
	"github.com/yeremiapane/digital-menu/services"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	Config     config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Events     services.EventPublisher
	Identities services.IdentityProvider
	Reconciler *services.IdentityReconciler
	Hub        *realtime.MenuHub
}

func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if d.Hub == nil {
		d.Hub = realtime.NewMenuHub()
	}
	if d.Identities == nil {
		d.Identities = services.NewGormIdentityProvider(d.DB)
	}

	razorpay := services.NewRazorpayService(&services.RazorpayConfig{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		BaseURL:   cfg.RazorpayBaseURL,
	})
	cache := services.NewMenuCache(d.Redis, cfg.MenuCacheTTL)
	signups := services.NewSignupService(d.DB, cfg.SubdomainSuffix)
	provisioning := services.NewProvisioningService(d.DB, razorpay, signups, d.Identities, d.Reconciler, d.Events, cfg.BcryptCost)
	gate := services.NewAccessGate(d.DB)
	onboarding := services.NewOnboardingService(d.DB, d.Events)
	dashboard := services.NewDashboardService(d.DB, cache, d.Hub)
	storefront := services.NewStorefrontService(d.DB, cache)

	signupCtrl := controllers.NewSignupController(signups)
	paymentCtrl := controllers.NewPaymentController(razorpay, provisioning)
	userCtrl := controllers.NewUserController(d.Identities, gate, d.Reconciler)
	onboardingCtrl := controllers.NewOnboardingController(onboarding)
	categoryCtrl := controllers.NewMenuCategoryController(dashboard)
	menuCtrl := controllers.NewMenuController(dashboard)
	profileCtrl := controllers.NewProfileController(dashboard)
	customerCtrl := controllers.NewCustomerController(storefront)
	publicCtrl := controllers.NewPublicMenuController(storefront)
	realtimeCtrl := controllers.NewRealtimeController(d.Hub, storefront)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.GinMode == gin.ReleaseMode))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(middlewares.SessionMiddleware())

	rateLimiter := middlewares.NewRateLimiter(300, time.Minute)
	r.Use(rateLimiter.RateLimit())

	r.GET("/health", healthHandler(d))

	api := r.Group("/api")
	api.GET("/plans", signupCtrl.ListPlans)
	api.GET("/session", userCtrl.Session)

	public := api.Group("/")
	public.Use(middlewares.NewStrictRateLimiter(cfg.RateLimitPerMinute))
	{
		public.POST("/signup", signupCtrl.Signup)
		public.POST("/signup/plan", signupCtrl.SelectPlan)
		public.POST("/auth/login", userCtrl.Login)
	}
	api.POST("/auth/logout", middlewares.RequireSession(), userCtrl.Logout)

	payment := api.Group("/payment")
	payment.Use(
		middlewares.PaymentSecurityHeaders(),
		middlewares.PaymentRateLimiter(),
		middlewares.LogPaymentRequest(),
	)
	{
		payment.POST("/order", paymentCtrl.CreateOrder)
		payment.POST("/verify", paymentCtrl.Verify)
	}

	onboardingGroup := api.Group("/onboarding")
	onboardingGroup.Use(middlewares.AccessGate(gate, middlewares.ScopeOnboarding))
	{
		onboardingGroup.GET("", onboardingCtrl.Show)
		onboardingGroup.POST("", onboardingCtrl.Complete)
	}

	dash := api.Group("/dashboard/:plan")
	dash.Use(middlewares.AccessGate(gate, middlewares.ScopePlanFromPath), middlewares.AuditLogger())
	{
		dash.GET("", profileCtrl.Overview)

		dash.GET("/categories", categoryCtrl.GetAllCategories)
		dash.POST("/categories", categoryCtrl.CreateCategory)
		dash.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
		dash.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		dash.GET("/items", menuCtrl.GetAllMenus)
		dash.POST("/items", menuCtrl.CreateMenu)
		dash.PUT("/items/:menu_id", menuCtrl.UpdateMenu)
		dash.PATCH("/items/:menu_id/availability", menuCtrl.SetAvailability)
		dash.DELETE("/items/:menu_id", menuCtrl.DeleteMenu)

		dash.GET("/profile", profileCtrl.GetProfile)
		dash.PUT("/profile", profileCtrl.SaveProfile)

		dash.GET("/customers", middlewares.RequireFeature(models.FeatureCustomerList), customerCtrl.GetAllCustomers)
	}

	menu := api.Group("/menu/:owner")
	{
		menu.GET("", publicCtrl.GetMenu)
		menu.POST("/customers", customerCtrl.RegisterCustomer)
		menu.POST("/cart/quote", publicCtrl.QuoteCart)
	}

	ws := r.Group("/ws")
	{
		ws.GET("/menu/:owner", realtimeCtrl.PublicMenuSocket)
		ws.GET("/dashboard",
			middlewares.WebSocketAuthMiddleware(),
			middlewares.AccessGate(gate, middlewares.ScopeAnyPlan),
			middlewares.RequireFeature(models.FeatureLiveUpdates),
			realtimeCtrl.DashboardSocket,
		)
	}

	return r
}

func healthHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "cache": "disabled"}

		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if d.Redis != nil {
			checks["cache"] = "ok"
			if err := d.Redis.Ping(ctx).Err(); err != nil {
				checks["cache"] = "down"
			}
		}
		if d.Reconciler != nil {
			checks["identity_repairs_pending"] = len(d.Reconciler.Pending())
		}
		c.JSON(status, checks)
	}
}
