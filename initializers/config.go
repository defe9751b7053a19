package initializers

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port         string
	CallbackPort string
	DBDriver     string
	DBDSN        string
	JWTSecret    string
	AdminEmail   string
	RedisURL     string
	AMQPURL      string
	CORSOrigins  []string
	AWSBucket    string

	MpesaBaseURL      string
	ConsumerKey       string
	ConsumerSecret    string
	BusinessShortCode string
	PassKey           string
	CallbackURL       string
	MpesaTimeout      time.Duration

	ZohoAccountsURL    string
	ZohoBooksURL       string
	ZohoClientID       string
	ZohoClientSecret   string
	ZohoRefreshToken   string
	ZohoOrganizationID string
	ZohoCashAccountID  string
	ZohoSalesAccountID string
	ZohoCurrencyID     string

	FromEmail         string
	FromEmailPassword string
	FromEmailSMTP     string
	SMTPAddress       string
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func ReadConfig() Config {
	timeout, err := time.ParseDuration(getenv("MPESA_TIMEOUT", "30s"))
	if err != nil {
		timeout = 30 * time.Second
	}

	return Config{
		Port:         getenv("PORT", "8080"),
		CallbackPort: getenv("CALLBACK_PORT", "8081"),
		DBDriver:     getenv("DB_DRIVER", "mysql"),
		DBDSN:        getenv("DB_DSN", ""),
		JWTSecret:    getenv("JWT_SECRET", ""),
		AdminEmail:   getenv("ADMIN_EMAIL", "admin@kitchen.com"),
		RedisURL:     getenv("REDIS_URL", ""),
		AMQPURL:      getenv("AMQP_URL", ""),
		CORSOrigins:  strings.Split(getenv("CORS_ORIGINS", "http://localhost:4200"), ","),
		AWSBucket:    getenv("AWS_BUCKET", "hotel-kitchen"),

		MpesaBaseURL:      getenv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		ConsumerKey:       getenv("CONSUMER_KEY", ""),
		ConsumerSecret:    getenv("CONSUMER_SECRET", ""),
		BusinessShortCode: getenv("BUSINESS_SHORTCODE", ""),
		PassKey:           getenv("PASSKEY", ""),
		CallbackURL:       getenv("CALLBACK_URL", ""),
		MpesaTimeout:      timeout,

		ZohoAccountsURL:    getenv("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.com"),
		ZohoBooksURL:       getenv("ZOHO_BOOKS_URL", "https://books.zoho.com/api/v3"),
		ZohoClientID:       getenv("ZOHO_CLIENT_ID", ""),
		ZohoClientSecret:   getenv("ZOHO_CLIENT_SECRET", ""),
		ZohoRefreshToken:   getenv("ZOHO_REFRESH_TOKEN", ""),
		ZohoOrganizationID: getenv("ZOHO_ORGANIZATION_ID", ""),
		ZohoCashAccountID:  getenv("ZOHO_MPESA_ACCOUNT_ID", ""),
		ZohoSalesAccountID: getenv("ZOHO_SALES_ACCOUNT_ID", ""),
		ZohoCurrencyID:     getenv("ZOHO_DEFAULT_CURRENCY_ID", ""),

		FromEmail:         getenv("FROM_EMAIL", ""),
		FromEmailPassword: getenv("FROM_EMAIL_PASSWORD", ""),
		FromEmailSMTP:     getenv("FROM_EMAIL_SMTP", ""),
		SMTPAddress:       getenv("SMTP_ADDRESS", ""),
	}
}

// Require reports the first of the named settings that is empty.
func (c Config) Require(names ...string) error {
	values := map[string]string{
		"DB_DSN":                c.DBDSN,
		"JWT_SECRET":            c.JWTSecret,
		"CONSUMER_KEY":          c.ConsumerKey,
		"CONSUMER_SECRET":       c.ConsumerSecret,
		"BUSINESS_SHORTCODE":    c.BusinessShortCode,
		"PASSKEY":               c.PassKey,
		"CALLBACK_URL":          c.CallbackURL,
		"AMQP_URL":              c.AMQPURL,
		"ZOHO_CLIENT_ID":        c.ZohoClientID,
		"ZOHO_CLIENT_SECRET":    c.ZohoClientSecret,
		"ZOHO_REFRESH_TOKEN":    c.ZohoRefreshToken,
		"ZOHO_ORGANIZATION_ID":  c.ZohoOrganizationID,
		"ZOHO_MPESA_ACCOUNT_ID": c.ZohoCashAccountID,
		"ZOHO_SALES_ACCOUNT_ID": c.ZohoSalesAccountID,
	}
	for _, name := range names {
		if values[name] == "" {
			return fmt.Errorf("%s is not set", name)
		}
	}
	return nil
}
