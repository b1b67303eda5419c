package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	MailDriverSMTP = "smtp"
	MailDriverSES  = "ses"

	LinkPolicyStrict     = "strict"
	LinkPolicyPermissive = "permissive"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens
	JWTSecret string
	JWTExpiry time.Duration

	BcryptCost int

	// Mail
	MailDriver   string
	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
	AWSRegion    string

	// Identity provider
	IDPClientID      string
	IDPTokenInfoURL  string
	IDPIssuerURL     string
	IDPLinkPolicy    string
	IDPClientTimeout time.Duration

	ResetPlaintextFallback bool

	// Operator access
	AdminToken string

	// Server
	Port        string
	CORSOrigins string
	LogLevel    slog.Level
	// LogRetention is how long ERROR+ records stay in system_logs.
	LogRetention time.Duration
	SentryDSN    string
	AppEnv       string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "club_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "720h"), 30*24*time.Hour),

		BcryptCost: parseInt(getEnv("BCRYPT_COST", "10"), 10),

		MailDriver:   strings.ToLower(getEnv("MAIL_DRIVER", MailDriverSMTP)),
		MailHost:     getEnv("MAIL_HOST", ""),
		MailPort:     parseInt(getEnv("MAIL_PORT", "587"), 587),
		MailUsername: getEnv("MAIL_USERNAME", ""),
		MailPassword: getEnv("MAIL_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", ""),
		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),

		IDPClientID:      getEnv("IDP_CLIENT_ID", ""),
		IDPTokenInfoURL:  getEnv("IDP_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo"),
		IDPIssuerURL:     getEnv("IDP_ISSUER_URL", ""),
		IDPLinkPolicy:    strings.ToLower(getEnv("IDP_LINK_POLICY", LinkPolicyStrict)),
		IDPClientTimeout: parseDuration(getEnv("IDP_TIMEOUT", "10s"), 10*time.Second),

		ResetPlaintextFallback: parseBool(getEnv("RESET_PLAINTEXT_FALLBACK", "true"), true),

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		Port:         getEnv("PORT", "8080"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		LogLevel:     parseLevel(getEnv("LOG_LEVEL", "info")),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		AppEnv:       getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// MailConfigured reports whether enough mail settings are present to attempt
// delivery. Without them password resets fall back to returning the
// temporary password in the response.
func (c *Config) MailConfigured() bool {
	if c.MailFrom == "" {
		return false
	}
	switch c.MailDriver {
	case MailDriverSES:
		return c.AWSRegion != ""
	case MailDriverSMTP:
		return c.MailHost != "" && c.MailUsername != "" && c.MailPassword != ""
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
