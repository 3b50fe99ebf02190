package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/digital-menu/utils"
)

// RazorpayConfig holds the gateway credentials.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// RazorpayService creates orders and verifies checkout signatures.
type RazorpayService struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

func NewRazorpayService(config *RazorpayConfig) *RazorpayService {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.razorpay.com"
	}
	return &RazorpayService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateConfig validates Razorpay configuration
func (rs *RazorpayService) ValidateConfig() error {
	if rs.config.KeyID == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID is not set")
	}
	if rs.config.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET is not set")
	}
	return nil
}

func (rs *RazorpayService) KeyID() string {
	return rs.config.KeyID
}

// RazorpayOrder is the subset of the Orders API response the checkout needs.
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder opens a gateway order for amountPaise. The checkout widget
// later returns the order id, the payment id and their signature.
func (rs *RazorpayService) CreateOrder(ctx context.Context, amountPaise int64, notes map[string]string) (*RazorpayOrder, error) {
	if amountPaise <= 0 {
		return nil, utils.Validation("amount must be positive")
	}

	payload := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20],
		"notes":    notes,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	url := strings.TrimRight(rs.config.BaseURL, "/") + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(rs.config.KeyID, rs.config.KeySecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, utils.Backend("razorpay order", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		utils.ErrorLogger.Printf("Razorpay order API returned %d: %s", resp.StatusCode, string(body))
		return nil, utils.Backend("razorpay order", fmt.Errorf("status %d", resp.StatusCode))
	}

	var order RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	utils.InfoLogger.Printf("Created Razorpay order %s for %d paise", order.ID, order.Amount)
	return &order, nil
}

// PaymentSignature computes hex(HMAC-SHA256(secret, orderID|paymentID)).
func (rs *RazorpayService) PaymentSignature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(rs.config.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature compares in constant time. An empty secret never
// verifies.
func (rs *RazorpayService) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if rs.config.KeySecret == "" || signature == "" {
		return false
	}
	expected := rs.PaymentSignature(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
