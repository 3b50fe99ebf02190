package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/digital-menu/utils"
)

// Config holds every runtime setting. Values come from the environment
// (after godotenv has loaded .env) with development defaults.
type Config struct {
	Port    string
	GinMode string

	DBDriver   string
	DBDSN      string
	SQLitePath string

	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	SubdomainSuffix string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	MenuCacheTTL  time.Duration

	RabbitMQURL string

	CORSOrigins        []string
	RateLimitPerMinute int
	ReconcileInterval  time.Duration
}

func Load() Config {
	redisAddr := envStr("REDIS_ADDR", "")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		redisAddr = host + ":" + port
	}

	return Config{
		Port:    envStr("PORT", "8080"),
		GinMode: envStr("GIN_MODE", "debug"),

		DBDriver:   strings.ToLower(envStr("DB_DRIVER", "sqlite")),
		DBDSN:      os.Getenv("DB_DSN"),
		SQLitePath: envStr("SQLITE_PATH", "digital_menu.db"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: envDur("SESSION_TTL", 24*time.Hour),
		BcryptCost: envInt("BCRYPT_COST", 10),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   envStr("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		SubdomainSuffix: envStr("SUBDOMAIN_SUFFIX", "menu.example.com"),

		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisTLS:      envBool("REDIS_TLS", false),
		MenuCacheTTL:  envDur("MENU_CACHE_TTL", time.Minute),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		CORSOrigins:        envList("CORS_ORIGINS", "http://localhost:3000"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 20),
		ReconcileInterval:  envDur("RECONCILE_INTERVAL", 5*time.Minute),
	}
}

// Missing lists required settings that are empty. Callers decide whether
// that is fatal.
func (c Config) Missing() []string {
	var missing []string
	if c.RazorpayKeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if c.DBDriver == "mysql" && c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if !c.hasSessionSecret() {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

func (c Config) hasSessionSecret() bool {
	return c.JWTSecret != "" && c.JWTSecret != utils.DevSessionSecret
}

// CheckRelease rejects settings that are only safe for local development.
func (c Config) CheckRelease() error {
	if c.GinMode != gin.ReleaseMode {
		return nil
	}
	if !c.hasSessionSecret() {
		return errors.New("JWT_SECRET must be set to a private value in release mode")
	}
	return nil
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil && dur > 0 {
		return dur
	}
	return d
}

func envList(k, d string) []string {
	var out []string
	for _, p := range strings.Split(envStr(k, d), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
