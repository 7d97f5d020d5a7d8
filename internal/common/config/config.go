// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Store         StoreConfig        `mapstructure:"store"`
	Auth          AuthConfig         `mapstructure:"auth"`
	Form          FormConfig         `mapstructure:"form"`
	Export        ExportConfig       `mapstructure:"export"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	BasePath        string `mapstructure:"base_path"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	CookieName      string `mapstructure:"cookie_name"`
	CookieSecure    bool   `mapstructure:"cookie_secure"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Store drivers
const (
	StoreDriverPostgres      = "postgres"
	StoreDriverElasticsearch = "elasticsearch"
	StoreDriverMemory        = "memory"
)

// StoreConfig selects the application document store.
type StoreConfig struct {
	Driver       string `mapstructure:"driver"`
	Collection   string `mapstructure:"collection"` // table or index name
	Timeout      int    `mapstructure:"timeout"`    // milliseconds
	ValidateJSON bool   `mapstructure:"validate_schema"`
}

// --- Specific Configuration Sections ---

// AuthConfig holds sign-in and access settings.
type AuthConfig struct {
	Google          GoogleOAuthConfig `mapstructure:"google"`
	AllowedDomain   string            `mapstructure:"allowed_domain"`
	InstitutionName string            `mapstructure:"institution_name"`
	AdminEmails     []string          `mapstructure:"admin_emails"`
	SessionTTL      int               `mapstructure:"session_ttl"` // seconds
	StateTTL        int               `mapstructure:"state_ttl"`   // seconds
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_uri"`
	UserInfoURL  string `mapstructure:"userinfo_url"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// IsAdmin reports whether email is on the admin allowlist.
func (a AuthConfig) IsAdmin(email string) bool {
	for _, admin := range a.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// FormConfig holds settings for the application form.
type FormConfig struct {
	Open          bool   `mapstructure:"open"`
	DraftDebounce int    `mapstructure:"draft_debounce"` // milliseconds
	DraftTimeout  int    `mapstructure:"draft_timeout"`  // milliseconds
	RegistryPath  string `mapstructure:"registry_path"`
}

// ExportConfig holds settings for the spreadsheet export.
type ExportConfig struct {
	FileName  string `mapstructure:"file_name"`
	SheetName string `mapstructure:"sheet_name"`
}

// NotificationConfig holds settings for the submission confirmation.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	Topic struct {
		Enabled bool   `mapstructure:"enabled"`
		ARN     string `mapstructure:"arn"`
	} `mapstructure:"topic"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Timeout int `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
