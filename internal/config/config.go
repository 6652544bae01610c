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

	JWTPrivateKeyPath  string
	JWTPublicKeyPath   string
	JWTExpiry          time.Duration
	RefreshTokenExpiry time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins

	// Locale routing at the edge. MaintenanceMode selects the rewrite
	// variant instead of locale redirection; the two are never combined.
	SupportedLocales []string
	DefaultLocale    string
	BypassPrefixes   []string
	MaintenanceMode  bool
	MaintenancePage  string

	// Email verification.
	VerificationCodeTTL time.Duration

	// IBAN generation for newly opened accounts.
	BankCountry string
	BankCode    string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Sessions      string
	Accounts      string
	Transfers     string
	Cards         string
	Budgets       string
	KYCDocuments  string
	Notifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Accounts:      getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Transfers:     getEnv("DYNAMO_TABLE_TRANSFERS", "transfers"),
			Cards:         getEnv("DYNAMO_TABLE_CARDS", "cards"),
			Budgets:       getEnv("DYNAMO_TABLE_BUDGETS", "budgets"),
			KYCDocuments:  getEnv("DYNAMO_TABLE_KYC_DOCUMENTS", "kyc_documents"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "lumabank-kyc-documents"),

		JWTPrivateKeyPath:  getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:   getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:          time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		RefreshTokenExpiry: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@lumabank.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "eu-west-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		SupportedLocales: strings.Split(getEnv("SUPPORTED_LOCALES", "en,fr"), ","),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "en"),
		BypassPrefixes:   strings.Split(getEnv("LOCALE_BYPASS_PREFIXES", "/admin,/api,/v1,/_next,/static,/favicon.ico,/maintenance"), ","),
		MaintenanceMode:  getEnvBool("MAINTENANCE_MODE", false),
		MaintenancePage:  getEnv("MAINTENANCE_PAGE", "/maintenance"),

		VerificationCodeTTL: time.Duration(getEnvInt("VERIFICATION_CODE_TTL_MINUTES", 15)) * time.Minute,

		BankCountry: getEnv("BANK_COUNTRY", "FR"),
		BankCode:    getEnv("BANK_CODE", "30004"),
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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
