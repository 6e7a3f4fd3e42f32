package initializers

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string

	StoreDriver string
	DatabaseDSN string

	JWTSecret     string
	AdminName     string
	AdminEmail    string
	AdminPhone    string
	AdminPassword string

	OrderDeliveryFee       float64
	FreeDeliveryThreshold  float64
	SimpleOrderDeliveryFee float64
	SimpleOrderSink        string
	SimpleOrderCapacity    int
	SimpleOrderRateLimit   int
	ProfitMargin           float64

	CORSOrigins []string

	RedisURL           string
	NotifyWebhookURL   string
	NotifyWebhookToken string
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFrom           string
	ExportBucket       string

	LogLevel  string
	LogFormat string
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig reads configuration from the environment, applying defaults.
func LoadConfig() Config {
	return Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("APP_ENV", "development"),

		StoreDriver: getEnv("STORE_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DB_DSN", ""),

		JWTSecret:     getEnv("JWT_SECRET", "puffvibe-dev-secret"),
		AdminName:     getEnv("ADMIN_NAME", "PuffVibe Admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPhone:    getEnv("ADMIN_PHONE", "0700000000"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		OrderDeliveryFee:       getEnvFloat("ORDER_DELIVERY_FEE", 150),
		FreeDeliveryThreshold:  getEnvFloat("FREE_DELIVERY_THRESHOLD", 1000),
		SimpleOrderDeliveryFee: getEnvFloat("SIMPLE_ORDER_DELIVERY_FEE", 15),
		SimpleOrderSink:        getEnv("SIMPLE_ORDER_SINK", "memory"),
		SimpleOrderCapacity:    getEnvInt("SIMPLE_ORDER_CAPACITY", 100),
		SimpleOrderRateLimit:   getEnvInt("SIMPLE_ORDER_RATE_LIMIT", 10),
		ProfitMargin:           getEnvFloat("PROFIT_MARGIN", 0.5),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		RedisURL:           getEnv("REDIS_URL", ""),
		NotifyWebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
		NotifyWebhookToken: getEnv("NOTIFY_WEBHOOK_TOKEN", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		ExportBucket:       getEnv("EXPORT_BUCKET", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}
