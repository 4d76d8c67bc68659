package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSRegion      string

	RedisAddr     string
	RedisPassword string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	StoreName   string
	OwnerEmail  string
	AdminEmails []string

	// Pricing. All money values are integer minor units (paise).
	Currency string
	// FlatShippingFeeMinor is added to every order whose subtotal is below
	// FreeShippingThresholdMinor; a threshold of 0 means shipping is never
	// waived.
	FlatShippingFeeMinor       int64
	FreeShippingThresholdMinor int64

	OTPTTL         time.Duration
	OTPMaxAttempts int
	SessionTTL     time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Products      string
	Carts         string
	Customers     string
	Orders        string
	Sessions      string
	Verifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Products:      getEnv("DYNAMO_TABLE_PRODUCTS", "products"),
			Carts:         getEnv("DYNAMO_TABLE_CARTS", "carts"),
			Customers:     getEnv("DYNAMO_TABLE_CUSTOMERS", "customers"),
			Orders:        getEnv("DYNAMO_TABLE_ORDERS", "orders"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Verifications: getEnv("DYNAMO_TABLE_OTP_VERIFICATIONS", "otp_verifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "storefront-images"),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 60)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		StoreName:   getEnv("STORE_NAME", "HiKraze"),
		OwnerEmail:  getEnv("OWNER_EMAIL", ""),
		AdminEmails: splitNonEmpty(getEnv("ADMIN_EMAILS", "")),

		Currency:                   getEnv("CURRENCY", "INR"),
		FlatShippingFeeMinor:       getEnvInt64("FLAT_SHIPPING_FEE_MINOR", 7000),
		FreeShippingThresholdMinor: getEnvInt64("FREE_SHIPPING_THRESHOLD_MINOR", 50000),

		OTPTTL:         time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
