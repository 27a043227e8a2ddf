package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot transport settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// AdminConfig gates the operator mode.
type AdminConfig struct {
	Password string `yaml:"password" envconfig:"ADMIN_PASSWORD"`
}

// CatalogConfig locates the persisted service catalog.
type CatalogConfig struct {
	Path string `yaml:"path" envconfig:"CATALOG_PATH"`
}

// SessionConfig selects and configures the session store backend.
type SessionConfig struct {
	// Backend is either "badger" (embedded, default) or "postgres".
	Backend string `yaml:"backend" envconfig:"SESSION_BACKEND"`
	// Dir is the badger data directory.
	Dir string `yaml:"dir" envconfig:"SESSION_DIR"`

	Host           string `yaml:"host" envconfig:"SESSION_DB_HOST"`
	Port           string `yaml:"port" envconfig:"SESSION_DB_PORT"`
	User           string `yaml:"user" envconfig:"SESSION_DB_USER"`
	Password       string `yaml:"db_password" envconfig:"SESSION_DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"SESSION_DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"SESSION_DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"SESSION_DB_MAX_CONNECTIONS"`
}

// InvoiceConfig controls generated document output.
type InvoiceConfig struct {
	// Dir is the transient output location for generated files.
	Dir string `yaml:"dir" envconfig:"INVOICE_DIR"`
	// Font is the path to a Cyrillic-capable TTF used in PDF output.
	Font string `yaml:"font" envconfig:"INVOICE_FONT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
	File    string `yaml:"file"`
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// SessionBackendBadger keeps sessions in an embedded badger store.
	SessionBackendBadger = "badger"
	// SessionBackendPostgres keeps sessions in a shared Postgres table.
	SessionBackendPostgres = "postgres"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the whole bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Admin     AdminConfig     `yaml:"admin"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Session   SessionConfig   `yaml:"session"`
	Invoice   InvoiceConfig   `yaml:"invoice"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Admin.Password == "" {
		return fmt.Errorf("admin.password is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	if backend == "" {
		backend = SessionBackendBadger
	}
	switch backend {
	case SessionBackendBadger:
		if strings.TrimSpace(cfg.Session.Dir) == "" {
			cfg.Session.Dir = "data/sessions"
		}
	case SessionBackendPostgres:
		if cfg.Session.Host == "" || cfg.Session.Name == "" || cfg.Session.User == "" {
			return fmt.Errorf("session.host, session.user and session.name are required when session.backend is 'postgres'")
		}
		if cfg.Session.Port == "" {
			cfg.Session.Port = "5432"
		}
		if cfg.Session.SSLMode == "" {
			cfg.Session.SSLMode = "disable"
		}
		if cfg.Session.MaxConnections <= 0 {
			cfg.Session.MaxConnections = 4
		}
	default:
		return fmt.Errorf("invalid session.backend %q; allowed: badger, postgres", cfg.Session.Backend)
	}
	cfg.Session.Backend = backend

	if strings.TrimSpace(cfg.Catalog.Path) == "" {
		cfg.Catalog.Path = "data/services.json"
	}
	if strings.TrimSpace(cfg.Invoice.Dir) == "" {
		cfg.Invoice.Dir = "temp"
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
