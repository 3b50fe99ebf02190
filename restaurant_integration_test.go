package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/digital-menu/config"
	"github.com/yeremiapane/digital-menu/database"
	"github.com/yeremiapane/digital-menu/router"
	"github.com/yeremiapane/digital-menu/services"
	"github.com/yeremiapane/digital-menu/utils"
	"gorm.io/gorm"
)

const (
	testKeySecret = "integration_secret"
	ownerEmail    = "ravi@example.com"
	ownerPassword = "secret123"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.SilenceLoggers()
	utils.ConfigureSessions("integration-session-secret", time.Hour)
	os.Exit(m.Run())
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// TestEndToEndIntegration walks one owner through the product:
// 1. signup and plan selection
// 2. payment verification creates the account
// 3. login, onboarding gate, onboarding
// 4. dashboard menu editing under the plan scope
// 5. the public menu, customer capture and cart quote
// 6. logout ends the session
func TestEndToEndIntegration(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(router.Deps{Config: testConfig(), DB: db})

	pending := signupTest(t, r)
	verifyPaymentTest(t, r, pending)

	token := loginTest(t, r)
	sessionStateTest(t, r, token, services.StateFirstLogin)

	if code := call(t, r, http.MethodGet, "/api/dashboard/growth", token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("dashboard before onboarding: expected 403, got %d", code)
	}
	onboardingTest(t, r, token)
	sessionStateTest(t, r, token, services.StateAuthorized)

	var denied services.AccessDecision
	if code := call(t, r, http.MethodGet, "/api/dashboard/starter", token, nil, &denied); code != http.StatusForbidden {
		t.Fatalf("wrong plan dashboard: expected 403, got %d", code)
	}
	if denied.Redirect != "/dashboard/growth" {
		t.Fatalf("wrong plan dashboard: expected redirect to /dashboard/growth, got %q", denied.Redirect)
	}

	itemID := buildMenuTest(t, r, token)
	storefrontTest(t, r, itemID)

	logoutTest(t, r, token)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.OpenInMemory(uuid.NewString())
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testConfig() config.Config {
	return config.Config{
		GinMode:            gin.TestMode,
		BcryptCost:         4,
		RazorpayKeyID:      "rzp_test_integration",
		RazorpayKeySecret:  testKeySecret,
		SubdomainSuffix:    "menu.test",
		RateLimitPerMinute: 1000,
	}
}

// call sends a JSON request and decodes the data field of the envelope
// into out when given.
func call(t *testing.T, r *gin.Engine, method, path, token string, body, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if out != nil {
		var env envelope
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad response body %s", method, path, w.Body.String())
		}
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				t.Fatalf("%s %s: bad data %s", method, path, env.Data)
			}
		}
	}
	return w.Code
}

// signupTest -> POST /api/signup then /api/signup/plan
func signupTest(t *testing.T, r *gin.Engine) services.PendingSignup {
	var result services.SignupResult
	code := call(t, r, http.MethodPost, "/api/signup", "", map[string]string{
		"name":            "Ravi Kumar",
		"email":           "Ravi@Example.com",
		"phone":           "9876543210",
		"restaurant_name": "Spice Garden",
		"password":        ownerPassword,
	}, &result)
	if code != http.StatusOK {
		t.Fatalf("signupTest: expected 200, got %d", code)
	}
	if result.SubdomainPreview != "spice-garden.menu.test" {
		t.Fatalf("signupTest: unexpected subdomain preview %q", result.SubdomainPreview)
	}

	var pending services.PendingSignup
	code = call(t, r, http.MethodPost, "/api/signup/plan", "", map[string]interface{}{
		"signup":  result.Signup,
		"plan_id": "growth",
	}, &pending)
	if code != http.StatusOK {
		t.Fatalf("signupTest: plan selection expected 200, got %d", code)
	}
	if pending.Plan != "growth" || pending.Price != 2499 {
		t.Fatalf("signupTest: unexpected plan %q price %v", pending.Plan, pending.Price)
	}
	return pending
}

// verifyPaymentTest -> POST /api/payment/verify with a gateway-signed callback
func verifyPaymentTest(t *testing.T, r *gin.Engine, pending services.PendingSignup) {
	rz := services.NewRazorpayService(&services.RazorpayConfig{KeyID: "rzp_test_integration", KeySecret: testKeySecret})
	orderID, paymentID := "order_it_1", "pay_it_1"

	payload := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  rz.PaymentSignature(orderID, paymentID),
		"userData": services.UserData{
			Name:           pending.Name,
			Email:          pending.Email,
			Phone:          pending.Phone,
			RestaurantName: pending.RestaurantName,
			Password:       ownerPassword,
			Plan:           string(pending.Plan),
			Price:          pending.Price,
		},
	}
	bodyBytes, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("verifyPaymentTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			Email      string `json:"email"`
			Subdomain  string `json:"subdomain"`
			FirstLogin bool   `json:"first_login"`
		} `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success || resp.User.Email != ownerEmail || !resp.User.FirstLogin {
		t.Fatalf("verifyPaymentTest: unexpected response %s", w.Body.String())
	}
	if resp.User.Subdomain != "spice-garden" {
		t.Fatalf("verifyPaymentTest: unexpected subdomain %q", resp.User.Subdomain)
	}
}

// loginTest -> POST /api/auth/login => token
func loginTest(t *testing.T, r *gin.Engine) string {
	if code := call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": ownerEmail, "password": "wrong-password",
	}, nil); code != http.StatusUnauthorized {
		t.Fatalf("loginTest: wrong password expected 401, got %d", code)
	}

	var data struct {
		Token string                  `json:"token"`
		Next  services.AccessDecision `json:"next"`
	}
	code := call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": ownerEmail, "password": ownerPassword,
	}, &data)
	if code != http.StatusOK {
		t.Fatalf("loginTest: expected 200, got %d", code)
	}
	if data.Token == "" {
		t.Fatalf("loginTest: token empty")
	}
	if data.Next.Redirect != services.RouteOnboarding {
		t.Fatalf("loginTest: expected onboarding next, got %+v", data.Next)
	}
	return data.Token
}

func sessionStateTest(t *testing.T, r *gin.Engine, token string, want services.AccessState) {
	var data struct {
		Decision services.AccessDecision `json:"decision"`
	}
	if code := call(t, r, http.MethodGet, "/api/session", token, nil, &data); code != http.StatusOK {
		t.Fatalf("sessionStateTest: expected 200, got %d", code)
	}
	if data.Decision.State != want {
		t.Fatalf("sessionStateTest: expected %s, got %s", want, data.Decision.State)
	}
}

// onboardingTest -> GET then POST /api/onboarding
func onboardingTest(t *testing.T, r *gin.Engine, token string) {
	var view services.OnboardingView
	if code := call(t, r, http.MethodGet, "/api/onboarding", token, nil, &view); code != http.StatusOK {
		t.Fatalf("onboardingTest: expected 200, got %d", code)
	}
	if len(view.Steps) == 0 {
		t.Fatalf("onboardingTest: no steps returned")
	}

	if code := call(t, r, http.MethodPost, "/api/onboarding", token, map[string]string{"restaurant_name": " "}, nil); code != http.StatusBadRequest {
		t.Fatalf("onboardingTest: empty name expected 400, got %d", code)
	}

	var done struct {
		Redirect string `json:"redirect"`
	}
	code := call(t, r, http.MethodPost, "/api/onboarding", token, map[string]string{"restaurant_name": "Spice Garden Indiranagar"}, &done)
	if code != http.StatusOK {
		t.Fatalf("onboardingTest: expected 200, got %d", code)
	}
	if done.Redirect != "/dashboard/growth" {
		t.Fatalf("onboardingTest: expected /dashboard/growth, got %q", done.Redirect)
	}
}

// buildMenuTest -> categories and items under /api/dashboard/growth
func buildMenuTest(t *testing.T, r *gin.Engine, token string) uint {
	var category struct {
		ID uint `json:"id"`
	}
	code := call(t, r, http.MethodPost, "/api/dashboard/growth/categories", token, map[string]string{"name": "Biryani"}, &category)
	if code != http.StatusCreated {
		t.Fatalf("buildMenuTest: category expected 201, got %d", code)
	}

	var item struct {
		ID          uint    `json:"id"`
		Price       float64 `json:"price"`
		IsAvailable bool    `json:"is_available"`
	}
	code = call(t, r, http.MethodPost, "/api/dashboard/growth/items", token, map[string]interface{}{
		"category_id": category.ID,
		"name":        "Hyderabadi Biryani",
		"price":       320.5,
		"is_veg":      false,
		"is_non_veg":  true,
	}, &item)
	if code != http.StatusCreated {
		t.Fatalf("buildMenuTest: item expected 201, got %d", code)
	}
	if !item.IsAvailable || item.Price != 320.5 {
		t.Fatalf("buildMenuTest: unexpected item %+v", item)
	}

	var hidden struct {
		ID uint `json:"id"`
	}
	call(t, r, http.MethodPost, "/api/dashboard/growth/items", token, map[string]interface{}{
		"category_id": category.ID, "name": "Mutton Biryani", "price": 450,
	}, &hidden)
	path := "/api/dashboard/growth/items/" + strconv.Itoa(int(hidden.ID)) + "/availability"
	if code := call(t, r, http.MethodPatch, path, token, map[string]bool{"is_available": false}, nil); code != http.StatusOK {
		t.Fatalf("buildMenuTest: availability expected 200, got %d", code)
	}

	if code := call(t, r, http.MethodPut, "/api/dashboard/growth/profile", token, map[string]string{
		"cuisine": "Hyderabadi", "opening_hours": "11:00-23:00",
	}, nil); code != http.StatusOK {
		t.Fatalf("buildMenuTest: profile expected 200, got %d", code)
	}
	return item.ID
}

// storefrontTest -> the customer-facing routes under /api/menu/:owner
func storefrontTest(t *testing.T, r *gin.Engine, itemID uint) {
	var menu services.PublicMenu
	if code := call(t, r, http.MethodGet, "/api/menu/spice-garden", "", nil, &menu); code != http.StatusOK {
		t.Fatalf("storefrontTest: menu expected 200, got %d", code)
	}
	if menu.RestaurantName != "Spice Garden Indiranagar" {
		t.Fatalf("storefrontTest: unexpected restaurant %q", menu.RestaurantName)
	}
	if len(menu.Categories) != 1 || len(menu.Categories[0].Items) != 1 {
		t.Fatalf("storefrontTest: expected one category with one available item, got %+v", menu.Categories)
	}
	if menu.Profile == nil || menu.Profile.Cuisine != "Hyderabadi" {
		t.Fatalf("storefrontTest: profile missing from menu")
	}

	customer := map[string]string{"name": "Asha", "phone": "9000000001"}
	if code := call(t, r, http.MethodPost, "/api/menu/spice-garden/customers", "", customer, nil); code != http.StatusCreated {
		t.Fatalf("storefrontTest: customer expected 201, got %d", code)
	}
	if code := call(t, r, http.MethodPost, "/api/menu/spice-garden/customers", "", customer, nil); code != http.StatusOK {
		t.Fatalf("storefrontTest: returning customer expected 200, got %d", code)
	}

	var quote services.Quote
	code := call(t, r, http.MethodPost, "/api/menu/spice-garden/cart/quote", "", map[string]interface{}{
		"items": []services.QuoteLine{{MenuItemID: itemID, Quantity: 3}},
	}, &quote)
	if code != http.StatusOK {
		t.Fatalf("storefrontTest: quote expected 200, got %d", code)
	}
	if quote.Count != 3 || quote.TotalPaise != 96150 {
		t.Fatalf("storefrontTest: unexpected quote %+v", quote)
	}

	if code := call(t, r, http.MethodGet, "/api/menu/unknown-place", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("storefrontTest: unknown restaurant expected 404, got %d", code)
	}
}

// logoutTest -> POST /api/auth/logout, after which the token is refused
func logoutTest(t *testing.T, r *gin.Engine, token string) {
	if code := call(t, r, http.MethodPost, "/api/auth/logout", token, nil, nil); code != http.StatusOK {
		t.Fatalf("logoutTest: expected 200, got %d", code)
	}
	if code := call(t, r, http.MethodGet, "/api/dashboard/growth", token, nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("logoutTest: expected 401 after logout, got %d", code)
	}
}
