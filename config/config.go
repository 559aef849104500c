package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Sheets     SheetsConfig     `yaml:"sheets"`
	Writer     WriterConfig     `yaml:"writer"`
	Session    SessionConfig    `yaml:"session"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Receipt    ReceiptConfig    `yaml:"receipt"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	PublicBaseURL   string  `yaml:"public_base_url"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// SheetsConfig describes the spreadsheet the catalog is read from.
// Each dataset lists candidate sheet names; the reader tries them in
// order and uses the first that yields rows.
type SheetsConfig struct {
	BaseURL         string        `yaml:"base_url"`
	SpreadsheetID   string        `yaml:"spreadsheet_id"`
	SocioSheets     []string      `yaml:"socio_sheets"`
	SocioRange      string        `yaml:"socio_range"`
	InventorySheets []string      `yaml:"inventory_sheets"`
	InventoryRange  string        `yaml:"inventory_range"`
	StatusSheets    []string      `yaml:"status_sheets"`
	StatusRange     string        `yaml:"status_range"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// WriterConfig holds the Apps Script endpoint returns are registered to.
type WriterConfig struct {
	ScriptURL string `yaml:"script_url"`
}

// SessionConfig controls login sessions.
type SessionConfig struct {
	AdminCode  string        `yaml:"admin_code"`
	TTLMinutes int           `yaml:"ttl_minutes"`
	TTL        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// DatabaseConfig holds the database connection configuration for the
// local audit store.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push receipt delivery.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ReceiptConfig controls PDF rendering of return receipts.
type ReceiptConfig struct {
	ChromeRemoteURL string        `yaml:"chrome_remote_url"`
	NoSandbox       bool          `yaml:"no_sandbox"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	Timeout         time.Duration `yaml:"-"` // Ignored by YAML parser
}

// WorkerPoolConfig holds the configuration for the receipt delivery
// worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Sheets.BaseURL == "" {
		cfg.Sheets.BaseURL = "https://docs.google.com"
	}
	if len(cfg.Sheets.SocioSheets) == 0 {
		cfg.Sheets.SocioSheets = []string{"Hoja 3", "Socios"}
	}
	if cfg.Sheets.SocioRange == "" {
		cfg.Sheets.SocioRange = "A3:F"
	}
	if len(cfg.Sheets.InventorySheets) == 0 {
		cfg.Sheets.InventorySheets = []string{"Hoja 1", "Inventario"}
	}
	if cfg.Sheets.InventoryRange == "" {
		cfg.Sheets.InventoryRange = "A3:F"
	}
	if len(cfg.Sheets.StatusSheets) == 0 {
		cfg.Sheets.StatusSheets = []string{"Hoja 4", "Config"}
	}
	if cfg.Sheets.StatusRange == "" {
		cfg.Sheets.StatusRange = "A1:B2"
	}
	if cfg.Sheets.IntervalSeconds <= 0 {
		cfg.Sheets.IntervalSeconds = 300
	}
	cfg.Sheets.Interval = time.Duration(cfg.Sheets.IntervalSeconds) * time.Second

	if cfg.Session.AdminCode == "" {
		cfg.Session.AdminCode = "ADMIN99"
	}
	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 120
	}
	cfg.Session.TTL = time.Duration(cfg.Session.TTLMinutes) * time.Minute

	if cfg.Receipt.TimeoutSeconds <= 0 {
		cfg.Receipt.TimeoutSeconds = 30
	}
	cfg.Receipt.Timeout = time.Duration(cfg.Receipt.TimeoutSeconds) * time.Second

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
