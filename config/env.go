package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds every environment-configured value the service consumes. Loaded
// once at startup and handed to the components that need it.
type Env struct {
	Port          string
	DatabaseURL   string // postgres DSN; empty means embedded sqlite
	SQLitePath    string
	CORSOrigin    string
	AdminAPIKey   string
	AdminActor    string // audit actor used when X-Admin-Actor is absent
	BankPin       string // Pushbullet access token for the stream
	BankName      string // optional source-app filter, e.g. com.kakaobank.channel
	MailAPIURL    string // mail collaborator endpoint, empty disables notify
	PublicBaseURL string

	DepositDeadlineMinutes int
	DepositMinAmount       int64
	DepositMaxAmount       int64
	DepositUnitAmount      int64
	BankAccountBank        string
	BankAccountNumber      string
	BankAccountName        string
}

// LoadEnv reads .env if present and resolves all settings with their defaults.
func LoadEnv() *Env {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	return &Env{
		Port:          envOr("PORT", "3001"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    envOr("SQLITE_PATH", "database/database.db"),
		CORSOrigin:    envOr("BANKAPI_CORS_ORIGIN", "*"),
		AdminAPIKey:   os.Getenv("ADMIN_API_KEY"),
		AdminActor:    envOr("ADMIN_ACTOR", "admin"),
		BankPin:       envOr("BANKPIN", "your-bankpin"),
		BankName:      os.Getenv("BANK_NAME"),
		MailAPIURL:    os.Getenv("MAIL_API_URL"),
		PublicBaseURL: envOr("PUBLIC_BASE_URL", "http://localhost:3001"),

		DepositDeadlineMinutes: envOrInt("DEPOSIT_DEADLINE_MINUTES", 30),
		DepositMinAmount:       envOrInt64("DEPOSIT_MIN_AMOUNT", 1000),
		DepositMaxAmount:       envOrInt64("DEPOSIT_MAX_AMOUNT", 1000000),
		DepositUnitAmount:      envOrInt64("DEPOSIT_UNIT_AMOUNT", 1000),
		BankAccountBank:        os.Getenv("BANK_ACCOUNT_BANK"),
		BankAccountNumber:      os.Getenv("BANK_ACCOUNT_NUMBER"),
		BankAccountName:        os.Getenv("BANK_ACCOUNT_NAME"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s is not a number, using default %d", key, fallback)
	}
	return fallback
}

func envOrInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("[WARN] %s is not a number, using default %d", key, fallback)
	}
	return fallback
}
