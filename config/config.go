package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
// It is loaded once at process start and immutable afterwards; components
// that need "latest config" semantics (the approved-sender registry) re-parse
// the raw ApprovedSenders string on every lookup instead of caching a map.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBHost string `json:"dbhost"`
	DBPort uint16 `json:"dbport"`
	DBName string `json:"dbname"`
	DBUser string `json:"dbuser"`
	DBPass string `json:"dbpass"`

	// APIToken is the shared bearer secret required by every mutating endpoint.
	APIToken string `json:"-"`

	// Default sending identity used when the caller does not name an
	// approved sender explicitly.
	EmailUsername string `json:"email_username"`
	EmailPassword string `json:"-"`

	// ApprovedSenders is the raw "email:password,email:password" list.
	// Parsed on demand by util.ParseApprovedSenders.
	ApprovedSenders string `json:"-"`

	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`

	// EmailCC receives a copy of every templated send.
	EmailCC string `json:"email_cc"`

	// VerifyLinkBase is the page the verification link points at; the token
	// is appended as ?token=<token>.
	VerifyLinkBase string `json:"verify_link_base"`

	// MagicLinkBase and MagicRedirectURL shape the magic-login link:
	// <base>?magic=<token>&redirect=<redirect>.
	MagicLinkBase    string `json:"magic_link_base"`
	MagicRedirectURL string `json:"magic_redirect_url"`

	// LinkExpiryMinutes is read from the environment for compatibility but
	// is NOT enforced at redeem time: tokens stay redeemable indefinitely.
	// See DESIGN.md before wiring this into the verify path.
	LinkExpiryMinutes int `json:"link_expiry_minutes"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, if present,
// and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env file is fine; real deployments set the environment
		// directly.
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
		smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		expiryMinutes, _ := strconv.Atoi(os.Getenv("LINK_EXPIRY_MINUTES"))

		config = &Config{
			AppName: envOr("APPNAME", "slowyou.io"),
			AppEnv:  os.Getenv("APPENV"),
			AppPort: uint16(appPort),
			GinMode: os.Getenv("GINMODE"),
			DBHost:  os.Getenv("DBHOST"),
			DBPort:  uint16(dbPort),
			DBName:  os.Getenv("DBNAME"),
			DBUser:  os.Getenv("DBUSER"),
			DBPass:  os.Getenv("DBPASS"),

			APIToken: os.Getenv("API_TOKEN"),

			EmailUsername:   os.Getenv("EMAIL_USERNAME"),
			EmailPassword:   os.Getenv("EMAIL_PASSWORD"),
			ApprovedSenders: os.Getenv("APPROVED_SENDERS"),

			SMTPHost: envOr("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort: smtpPort,
			EmailCC:  os.Getenv("EMAIL_CC"),

			VerifyLinkBase:    envOr("VERIFY_LINK_BASE", "https://www.slowyou.io/verify-email"),
			MagicLinkBase:     envOr("MAGIC_LINK_BASE", "https://www.slowyou.io/login"),
			MagicRedirectURL:  envOr("MAGIC_REDIRECT_URL", "https://www.slowyou.io/"),
			LinkExpiryMinutes: expiryMinutes,
		}
		if config.SMTPPort == 0 {
			config.SMTPPort = 587
		}
	})
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ResetConfigForTesting clears the singleton so tests can reload a Config
// after changing the environment. Only use this in tests.
func ResetConfigForTesting() {
	config = nil
	once = sync.Once{}
}

// ConnectDatabase establishes the gorm connection used for the verification
// token store. In the test environment it opens an in-memory sqlite database
// so tests never need a running MySQL server.
func ConnectDatabase() (*gorm.DB, error) {
	cfg := LoadConfig()

	if cfg.AppEnv == "test" {
		return gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
