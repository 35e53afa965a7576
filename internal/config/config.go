package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers understood by Load.
const (
	DriverMongoDB  = "mongodb"
	DriverSupabase = "supabase"
	DriverMemory   = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	Supabase  SupabaseConfig
	Sheets    SheetsConfig
	AI        AIConfig
	Admin     AdminConfig
	Data      DataConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StorageConfig selects the persistence driver.
type StorageConfig struct {
	Driver       string
	UpsertByDate bool
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SupabaseConfig holds the project URL and anon key of a hosted Postgres.
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Sheets support is optional and disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether Google Sheets import/export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != "" && s.CredentialsPath != ""
}

// AIConfig holds settings for the Gemini text generation API.
type AIConfig struct {
	GeminiKey string
	Model     string
	BaseURL   string
}

// AdminConfig holds the single admin credential. PasswordHash, when set, is a
// bcrypt hash and takes precedence over Password.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// DataConfig holds reconciliation and dashboard options.
type DataConfig struct {
	DefaultTargetM3 float64
	DuplicatePolicy string
	DashboardRows   int
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
	Enabled      bool
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to
// deliver the weekly analysis. Delivery is disabled unless all of
// AccessToken, PhoneNumberID and ReportRecipient are set.
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BaseURL         string
	APIVersion      string
	ReportRecipient string
}

// Enabled reports whether weekly analyses should be sent over WhatsApp.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.ReportRecipient != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	defaultTarget, err := getenvFloat("DEFAULT_TARGET_M3", 1050)
	if err != nil {
		return nil, err
	}
	dashboardRows, err := getenvInt("DASHBOARD_RECENT_ROWS", 5)
	if err != nil {
		return nil, err
	}
	upsert, err := getenvBool("STORAGE_UPSERT_BY_DATE", false)
	if err != nil {
		return nil, err
	}
	reportingEnabled, err := getenvBool("REPORT_ENABLED", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: os.Getenv("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getenvWithDefault("STORAGE_DRIVER", DriverMongoDB)),
			UpsertByDate: upsert,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "minedash"),
		},
		Supabase: SupabaseConfig{
			URL:     os.Getenv("SUPABASE_URL"),
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		AI: AIConfig{
			GeminiKey: os.Getenv("GEMINI_API_KEY"),
			Model:     getenvWithDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:   getenvWithDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		},
		Admin: AdminConfig{
			Username:     os.Getenv("ADMIN_USERNAME"),
			Password:     os.Getenv("ADMIN_PASSWORD"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Data: DataConfig{
			DefaultTargetM3: defaultTarget,
			DuplicatePolicy: strings.ToLower(strings.TrimSpace(getenvWithDefault("DUPLICATE_DATE_POLICY", "forward"))),
			DashboardRows:   dashboardRows,
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Jakarta"),
			Enabled:      reportingEnabled,
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:         getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:      getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ReportRecipient: os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Driver {
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case DriverSupabase:
		switch {
		case c.Supabase.URL == "":
			return errors.New("SUPABASE_URL must be provided")
		case c.Supabase.AnonKey == "":
			return errors.New("SUPABASE_ANON_KEY must be provided")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER %q is not supported", c.Storage.Driver)
	}

	if (c.Sheets.SpreadsheetID == "") != (c.Sheets.CredentialsPath == "") {
		return errors.New("GOOGLE_SHEET_DATABASE_ID and GOOGLE_SHEETS_CREDENTIALS_PATH must be provided together")
	}

	if c.Admin.Username == "" {
		return errors.New("ADMIN_USERNAME must be provided")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be provided")
	}

	if c.Data.DefaultTargetM3 <= 0 {
		return errors.New("DEFAULT_TARGET_M3 must be positive")
	}
	if c.Data.DashboardRows <= 0 {
		return errors.New("DASHBOARD_RECENT_ROWS must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Data.DuplicatePolicy)) {
	case "forward", "reject", "keep-last":
	default:
		return fmt.Errorf("DUPLICATE_DATE_POLICY %q is not one of forward, reject, keep-last", c.Data.DuplicatePolicy)
	}

	if c.AI.Model == "" {
		return errors.New("GEMINI_MODEL must not be empty")
	}

	if c.Reporting.Enabled {
		if c.Reporting.CronSchedule == "" {
			return errors.New("REPORT_CRON_SCHEDULE must be provided")
		}
		if c.Reporting.Timezone == "" {
			return errors.New("TIMEZONE must be provided")
		}
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}
