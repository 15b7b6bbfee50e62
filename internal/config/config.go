package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreSheets   = "sheets"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

// Notification channels
const (
	NotifySES      = "ses"
	NotifyWhatsApp = "whatsapp"
	NotifyLog      = "log"
)

// Config holds the application configuration.
// It is built once at startup and passed to the components that need it.
type Config struct {
	SenderEmail    string
	RecipientEmail string
	SpreadsheetID  string
	SheetName      string
	CredentialRef  string
	AWSRegion      string

	StoreBackend  string
	SQLitePath    string
	PostgresDSN   string
	DynamoDBTable string

	NotifyChannel   string
	OperatorPhone   string
	CountryCode     string
	WhatsAppDataDir string

	Port         string
	AllowOrigins []string
	LogLevel     string
	LogPretty    bool
}

// LoadConfig loads configuration from environment variables or defaults.
// A .env file in the working directory is read first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		SenderEmail:    getEnv("SENDER_EMAIL", ""),
		RecipientEmail: getEnv("RECIPIENT_EMAIL", getEnv("RECEIVER_EMAIL", "")),
		SpreadsheetID:  getEnv("SPREADSHEET_ID", ""),
		SheetName:      getEnv("SHEET_NAME", "RSVP"),
		CredentialRef:  getEnv("CREDENTIAL_REF", ""),
		AWSRegion:      getEnv("AWS_REGION", "ap-northeast-1"),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", StoreSheets)),
		SQLitePath:    getEnv("SQLITE_PATH", "data/rsvp.db"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", ""),

		NotifyChannel:   strings.ToLower(getEnv("NOTIFY_CHANNEL", NotifySES)),
		OperatorPhone:   getEnv("OPERATOR_PHONE", ""),
		CountryCode:     getEnv("COUNTRY_CODE", "81"),
		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),

		Port:         getEnv("PORT", "8080"),
		AllowOrigins: splitList(getEnv("ALLOW_ORIGINS", "*")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnv("LOG_PRETTY", "") == "true",
	}
}

// Validate reports every setting the selected backends still need
func (c *Config) Validate() error {
	var errs []error
	require := func(value, key string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	switch c.StoreBackend {
	case StoreSheets:
		require(c.SpreadsheetID, "SPREADSHEET_ID")
		require(c.SheetName, "SHEET_NAME")
	case StoreSQLite:
		require(c.SQLitePath, "SQLITE_PATH")
	case StorePostgres:
		require(c.PostgresDSN, "POSTGRES_DSN")
	case StoreDynamoDB:
		require(c.DynamoDBTable, "DYNAMODB_TABLE")
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.NotifyChannel {
	case NotifySES:
		require(c.SenderEmail, "SENDER_EMAIL")
		require(c.RecipientEmail, "RECIPIENT_EMAIL")
	case NotifyWhatsApp:
		require(c.OperatorPhone, "OPERATOR_PHONE")
	case NotifyLog:
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_CHANNEL %q", c.NotifyChannel))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(csv string) []string {
	var out []string
	for _, v := range strings.Split(csv, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
