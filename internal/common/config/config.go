// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Server       ServerConfig      `mapstructure:"server"`
	Camunda      CamundaConfig     `mapstructure:"camunda"`
	Database     DatabaseConfig    `mapstructure:"database"`
	RateLimit    RateLimitConfig   `mapstructure:"rate_limit"`
	Valuation    ValuationConfig   `mapstructure:"valuation"`
	Followups    FollowupsConfig   `mapstructure:"followups"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP listener settings. Durations are milliseconds.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	IdleTimeout     int    `mapstructure:"idle_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	SubmitTimeout   int    `mapstructure:"submit_timeout"` // bounds one enquiry submission
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
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
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
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

// RateLimitConfig caps enquiry submissions per client IP in a fixed window.
type RateLimitConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Requests  int    `mapstructure:"requests"`
	Window    int    `mapstructure:"window"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ValuationConfig points at an optional industry policy file. Empty means the
// built-in multiplier table.
type ValuationConfig struct {
	PolicyPath string `mapstructure:"policy_path"`
}

// --- Follow-ups ---

// FollowupsConfig toggles the actions run after an enquiry has been stored.
// All of them are off unless enabled explicitly.
type FollowupsConfig struct {
	SalesEmail    SalesEmailConfig    `mapstructure:"sales_email"`
	SMSAlert      SMSAlertConfig      `mapstructure:"sms_alert"`
	CRMLead       CRMLeadConfig       `mapstructure:"crm_lead"`
	SearchIndex   SearchIndexConfig   `mapstructure:"search_index"`
	WorkflowStart WorkflowStartConfig `mapstructure:"workflow_start"`
}

type SalesEmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Recipients []string `mapstructure:"recipients"`
	Timeout    int      `mapstructure:"timeout"` // milliseconds
}

type SMSAlertConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	PhoneNumber string  `mapstructure:"phone_number"`
	Threshold   float64 `mapstructure:"threshold"` // market-multiple figure that triggers an alert
	Timeout     int     `mapstructure:"timeout"`
}

type CRMLeadConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	LeadSource string `mapstructure:"lead_source"`
	Timeout    int    `mapstructure:"timeout"`
}

type SearchIndexConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
	Timeout int    `mapstructure:"timeout"`
}

type WorkflowStartConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProcessID string `mapstructure:"process_id"`
	Timeout   int    `mapstructure:"timeout"`
}

// IntegrationConfig holds settings for CRM, Email, and other external services.
type IntegrationConfig struct {
	Zoho struct {
		APIKey    string `mapstructure:"api_key"`
		AuthToken string `mapstructure:"oauth_token"`
		BaseURL   string `mapstructure:"base_url"`
	} `mapstructure:"zoho"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
