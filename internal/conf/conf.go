package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreSheets = "sheets"
	StoreSQLite = "sqlite"
)

// Config represents application configuration
type Config struct {
	// Feishu configuration
	Feishu FeishuConfig

	// Google Sheets configuration
	Google GoogleConfig

	// System configuration (timezone, digest hour)
	System SystemConfig

	// Store configuration
	Store StoreConfig

	// HTTP API configuration
	API APIConfig

	// Project registry file (optional)
	ProjectsPath string

	// Debug mode
	Debug bool
}

// FeishuConfig contains Feishu configuration
type FeishuConfig struct {
	AppID       string
	AppSecret   string
	OwnerChatID string // Receives the daily digest
}

// GoogleConfig contains service account and spreadsheet settings
type GoogleConfig struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	SheetID     string
	SheetTab    string
}

// SystemConfig contains timezone and schedule settings
type SystemConfig struct {
	Timezone    string
	SummaryHour int
}

// StoreConfig selects where demands are stored
type StoreConfig struct {
	Backend string
	DBPath  string
}

// APIConfig contains local HTTP API settings
type APIConfig struct {
	Port int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Local database path (ledger, sqlite backend)
	dbPath := os.Getenv("RADAR_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".radar-diario", "radar.db")
	}

	// Daily digest hour
	summaryHour := 18
	if val := os.Getenv("SUMMARY_HOUR"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			summaryHour = parsed
		}
	}

	apiPort := 9877
	if val := os.Getenv("API_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			apiPort = parsed
		}
	}

	timezone := os.Getenv("TIMEZONE")
	if timezone == "" {
		timezone = "America/Sao_Paulo"
	}

	sheetTab := os.Getenv("GOOGLE_SHEET_TAB")
	if sheetTab == "" {
		sheetTab = "Demandas"
	}

	backend := strings.ToLower(os.Getenv("STORE_BACKEND"))
	if backend == "" {
		backend = StoreSheets
	}

	return &Config{
		Feishu: FeishuConfig{
			AppID:       os.Getenv("FEISHU_APP_ID"),
			AppSecret:   os.Getenv("FEISHU_APP_SECRET"),
			OwnerChatID: os.Getenv("OWNER_CHAT_ID"),
		},
		Google: GoogleConfig{
			ProjectID:   os.Getenv("GOOGLE_PROJECT_ID"),
			ClientEmail: os.Getenv("GOOGLE_CLIENT_EMAIL"),
			PrivateKey:  NormalizePrivateKey(os.Getenv("GOOGLE_PRIVATE_KEY")),
			SheetID:     os.Getenv("GOOGLE_SHEET_ID"),
			SheetTab:    sheetTab,
		},
		System: SystemConfig{
			Timezone:    timezone,
			SummaryHour: summaryHour,
		},
		Store: StoreConfig{
			Backend: backend,
			DBPath:  dbPath,
		},
		API: APIConfig{
			Port: apiPort,
		},
		ProjectsPath: os.Getenv("PROJECTS_CONFIG_PATH"),
		Debug:        os.Getenv("DEBUG") == "true",
	}
}

// NormalizePrivateKey turns escaped "\n" sequences from .env files into newlines
func NormalizePrivateKey(key string) string {
	key = strings.Trim(key, `"`)
	return strings.ReplaceAll(key, `\n`, "\n")
}

// Location loads the configured timezone
func (c *SystemConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Feishu.AppID == "" || c.Feishu.AppSecret == "" {
		return &ConfigError{Field: "FEISHU_APP_ID/FEISHU_APP_SECRET", Message: "required"}
	}
	if c.System.SummaryHour < 0 || c.System.SummaryHour > 23 {
		return &ConfigError{Field: "SUMMARY_HOUR", Message: "must be between 0 and 23"}
	}
	if _, err := c.System.Location(); err != nil {
		return &ConfigError{Field: "TIMEZONE", Message: err.Error()}
	}
	return c.Store.validate(&c.Google)
}

// ValidateStore validates only the store settings, for tools that never talk to Feishu
func (c *Config) ValidateStore() error {
	return c.Store.validate(&c.Google)
}

func (s *StoreConfig) validate(g *GoogleConfig) error {
	switch s.Backend {
	case StoreSheets:
		var missing []string
		if g.ClientEmail == "" {
			missing = append(missing, "GOOGLE_CLIENT_EMAIL")
		}
		if g.PrivateKey == "" {
			missing = append(missing, "GOOGLE_PRIVATE_KEY")
		}
		if g.SheetID == "" {
			missing = append(missing, "GOOGLE_SHEET_ID")
		}
		if len(missing) > 0 {
			return &ConfigError{Field: strings.Join(missing, "/"), Message: "required for sheets backend"}
		}
		return nil
	case StoreSQLite:
		if s.DBPath == "" {
			return &ConfigError{Field: "RADAR_DB_PATH", Message: "required for sqlite backend"}
		}
		return nil
	default:
		return &ConfigError{Field: "STORE_BACKEND", Message: "must be 'sheets' or 'sqlite'"}
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
