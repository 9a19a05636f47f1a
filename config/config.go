package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port      string
	DB        DB
	Redis     Redis
	Kafka     Kafka
	Provider  Provider
	Checkout  Checkout
	Inventory Inventory
	Sweep     Sweep
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Brokers       []string
	PaymentsTopic string
	GroupID       string
}

type Provider struct {
	BaseURL string
	APIKey  string
}

type Checkout struct {
	CurrencyCode               string
	FlatShippingFeeCents       int64
	FreeShippingThresholdCents int64
	StorefrontBaseURL          string
	AllowedCountries           []string
	CollectPhone               bool
}

type Inventory struct {
	// RejectNegativeStock turns movements that would drive on-hand below zero
	// into errors. Off by default: oversell is reconciled manually.
	RejectNegativeStock bool
}

type Sweep struct {
	PendingTTL time.Duration
	Interval   time.Duration
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Redis: Redis{
			Enabled:    os.Getenv("REDIS_ENABLED") == "true",
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         atoiDefault(os.Getenv("REDIS_DB"), 0),
			TTLSeconds: atoiDefault(os.Getenv("CACHE_TTL_SECONDS"), 60),
		},
		Kafka: Kafka{
			Brokers:       splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			PaymentsTopic: envDefault("KAFKA_TOPIC_PAYMENTS", "payments.confirmations"),
			GroupID:       envDefault("KAFKA_GROUP_ID", "backoffice-payments"),
		},
		Provider: Provider{
			BaseURL: getEnv("PAYMENT_PROVIDER_URL", log),
			APIKey:  getEnv("PAYMENT_PROVIDER_KEY", log),
		},
		Checkout: Checkout{
			CurrencyCode:               envDefault("CURRENCY_CODE", "USD"),
			FlatShippingFeeCents:       int64(atoiDefault(getEnv("FLAT_SHIPPING_FEE_CENTS", log), 0)),
			FreeShippingThresholdCents: int64(atoiDefault(getEnv("FREE_SHIPPING_THRESHOLD_CENTS", log), 0)),
			StorefrontBaseURL:          getEnv("STOREFRONT_BASE_URL", log),
			AllowedCountries:           splitAndTrim(os.Getenv("CHECKOUT_ALLOWED_COUNTRIES")),
			CollectPhone:               os.Getenv("CHECKOUT_COLLECT_PHONE") == "true",
		},
		Inventory: Inventory{
			RejectNegativeStock: os.Getenv("INVENTORY_REJECT_NEGATIVE") == "true",
		},
		Sweep: Sweep{
			PendingTTL: durationDefault(os.Getenv("PENDING_ORDER_TTL"), 24*time.Hour),
			Interval:   durationDefault(os.Getenv("PENDING_SWEEP_INTERVAL"), time.Hour),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func envDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func durationDefault(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
