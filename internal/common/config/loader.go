// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// server.address can be overridden with SERVER_ADDRESS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// base config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// environment config, optional
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile looks for a .env file in the working directory, its parents and
// the module root. Tests under test/e2e sit two levels down.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values the config file left empty from the plain
// environment variables the hosting platform provides.
func overrideEmptyConfig(cfg *Config) {
	pg := &cfg.Database.Postgres
	if pg.Host == "" {
		pg.Host = os.Getenv("DB_HOST")
	}
	if pg.Port == 0 {
		if val := os.Getenv("DB_PORT"); val != "" {
			if port, err := strconv.Atoi(val); err == nil {
				pg.Port = port
			}
		}
	}
	if pg.User == "" {
		pg.User = os.Getenv("DB_USER")
	}
	if pg.Password == "" {
		pg.Password = os.Getenv("DB_PASSWORD")
	}
	if pg.Database == "" {
		pg.Database = os.Getenv("DB_NAME")
	}

	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = os.Getenv("REDIS_ADDRESS")
	}

	if cfg.Integrations.Zoho.APIKey == "" {
		cfg.Integrations.Zoho.APIKey = os.Getenv("ZOHO_CRM_API_KEY")
	}
	if cfg.Integrations.Zoho.AuthToken == "" {
		cfg.Integrations.Zoho.AuthToken = os.Getenv("ZOHO_CRM_OAUTH_TOKEN")
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "valuation-leads"
	}

	// Server defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}
	if cfg.Server.SubmitTimeout == 0 {
		cfg.Server.SubmitTimeout = 10000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Database defaults. No idle connections: every submission opens and
	// closes its own connection.
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.RateLimit.Requests == 0 {
		cfg.RateLimit.Requests = 5
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = 60000
	}
	if cfg.RateLimit.KeyPrefix == "" {
		cfg.RateLimit.KeyPrefix = "ratelimit:enquiry:"
	}

	// Follow-up defaults
	f := &cfg.Followups
	for _, t := range []*int{&f.SalesEmail.Timeout, &f.SMSAlert.Timeout, &f.CRMLead.Timeout, &f.SearchIndex.Timeout, &f.WorkflowStart.Timeout} {
		if *t == 0 {
			*t = 5000
		}
	}
	if f.SMSAlert.Threshold == 0 {
		f.SMSAlert.Threshold = 1_000_000
	}
	if f.CRMLead.LeadSource == "" {
		f.CRMLead.LeadSource = "Valuation Calculator"
	}
	if f.SearchIndex.Index == "" {
		f.SearchIndex.Index = "enquiries"
	}
	if f.WorkflowStart.ProcessID == "" {
		f.WorkflowStart.ProcessID = "valuation-lead-followup"
	}

	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "us-east-1"
	}
	if cfg.Integrations.Zoho.BaseURL == "" {
		cfg.Integrations.Zoho.BaseURL = "https://www.zohoapis.com/crm/v3"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. Backing services are
// only required by the features that use them.
func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if cfg.Database.Postgres.MaxIdle != 0 {
		return fmt.Errorf("database.postgres.max_idle must be 0: connections are closed after each insert")
	}
	if cfg.Server.SubmitTimeout >= cfg.Server.WriteTimeout {
		return fmt.Errorf("server.submit_timeout must be shorter than server.write_timeout")
	}

	if cfg.RateLimit.Enabled {
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when rate_limit is enabled")
		}
		if cfg.RateLimit.Requests < 0 {
			return fmt.Errorf("rate_limit.requests must be positive")
		}
	}

	f := cfg.Followups
	if f.SalesEmail.Enabled {
		if cfg.Integrations.AWS.SES.FromEmail == "" {
			return fmt.Errorf("integrations.aws.ses.from_email is required for followups.sales_email")
		}
		if len(f.SalesEmail.Recipients) == 0 {
			return fmt.Errorf("followups.sales_email.recipients is required")
		}
	}
	if f.SMSAlert.Enabled && f.SMSAlert.PhoneNumber == "" {
		return fmt.Errorf("followups.sms_alert.phone_number is required")
	}
	if f.CRMLead.Enabled && cfg.Integrations.Zoho.AuthToken == "" {
		return fmt.Errorf("integrations.zoho.oauth_token is required for followups.crm_lead")
	}
	if f.SearchIndex.Enabled && cfg.Database.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required for followups.search_index")
	}
	if f.WorkflowStart.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required for followups.workflow_start")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
