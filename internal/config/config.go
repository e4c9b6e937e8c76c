package config

import (
	"errors"
	"fmt"
	"os"

	"bistro/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Exports    ExportConfig     `yaml:"exports"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Google     GoogleConfig     `yaml:"google"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port              int             `yaml:"port"`
	ReadHeaderTimeout int             `yaml:"read_header_timeout"` // seconds
	WriteTimeout      int             `yaml:"write_timeout"`       // seconds
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLDays  int    `yaml:"token_ttl_days"`
	AdminEmail    string `yaml:"admin_email"`    // seeded on first start
	AdminPassword string `yaml:"admin_password"` // seeded on first start, bcrypt-hashed at rest
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"` // Go duration, e.g. "24h"
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type UploadsConfig struct {
	Path           string `yaml:"path"`
	MenuImageMaxMB int    `yaml:"menu_image_max_mb"`
	BlogCoverMaxMB int    `yaml:"blog_cover_max_mb"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type TelegramConfig struct {
	Enabled  bool    `yaml:"enabled"`
	BotToken string  `yaml:"bot_token"`
	ChatIDs  []int64 `yaml:"chat_ids"` // manager chats notified on new reservations
	Debug    bool    `yaml:"debug"`
}

type GoogleConfig struct {
	CredentialsFile           string `yaml:"credentials_file"`
	ReservationsSpreadsheetID string `yaml:"reservations_spreadsheet_id"`
}

// RestaurantConfig holds the booking policy applied when the database has
// no singleton config row yet.
type RestaurantConfig struct {
	CapacityPerSlot     int `yaml:"capacity_per_slot"`
	SlotDurationMinutes int `yaml:"slot_duration_minutes"`
	MaxPartySize        int `yaml:"max_party_size"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; values referenced from the YAML are expanded below.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expanded, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "CHANGE_ME" {
		return errors.New("auth jwt_secret is required")
	}
	if c.Restaurant.CapacityPerSlot < 0 || c.Restaurant.SlotDurationMinutes < 0 || c.Restaurant.MaxPartySize < 0 {
		return errors.New("restaurant defaults must be positive")
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return errors.New("telegram enabled but bot_token is empty")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "bistro-api"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 4000
	}
	if c.HTTP.ReadHeaderTimeout == 0 {
		c.HTTP.ReadHeaderTimeout = 5
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15
	}
	if c.Auth.TokenTTLDays == 0 {
		c.Auth.TokenTTLDays = models.AdminTokenTTLDays
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Uploads.Path == "" {
		c.Uploads.Path = "uploads"
	}
	if c.Uploads.MenuImageMaxMB == 0 {
		c.Uploads.MenuImageMaxMB = 5
	}
	if c.Uploads.BlogCoverMaxMB == 0 {
		c.Uploads.BlogCoverMaxMB = 20
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Restaurant.CapacityPerSlot == 0 {
		c.Restaurant.CapacityPerSlot = models.DefaultCapacityPerSlot
	}
	if c.Restaurant.SlotDurationMinutes == 0 {
		c.Restaurant.SlotDurationMinutes = models.DefaultSlotDurationMinutes
	}
	if c.Restaurant.MaxPartySize == 0 {
		c.Restaurant.MaxPartySize = models.DefaultMaxPartySize
	}
}
