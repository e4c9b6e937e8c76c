package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
auth:
  jwt_secret: "test_secret"
database:
  path: "test.db"
http:
  port: 4100
restaurant:
  capacity_per_slot: 40
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Auth.JWTSecret != "test_secret" {
		t.Errorf("expected jwt_secret test_secret, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.HTTP.Port != 4100 {
		t.Errorf("expected port 4100, got %d", cfg.HTTP.Port)
	}
	if cfg.Restaurant.CapacityPerSlot != 40 {
		t.Errorf("expected capacity 40, got %d", cfg.Restaurant.CapacityPerSlot)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("BISTRO_TEST_SECRET", "from_env")

	yamlContent := `
auth:
  jwt_secret: "${BISTRO_TEST_SECRET}"
database:
  path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret != "from_env" {
		t.Errorf("expected env expansion, got %s", cfg.Auth.JWTSecret)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Config{
		Auth:     AuthConfig{JWTSecret: "s"},
		Database: DatabaseConfig{Path: "p"},
	}
	cfg.applyDefaults()

	if cfg.HTTP.Port != 4000 {
		t.Errorf("expected default port 4000, got %d", cfg.HTTP.Port)
	}
	if cfg.Restaurant.CapacityPerSlot != 30 || cfg.Restaurant.SlotDurationMinutes != 60 || cfg.Restaurant.MaxPartySize != 10 {
		t.Errorf("unexpected restaurant defaults: %+v", cfg.Restaurant)
	}
	if cfg.Uploads.MenuImageMaxMB != 5 || cfg.Uploads.BlogCoverMaxMB != 20 {
		t.Errorf("unexpected upload limits: %+v", cfg.Uploads)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Auth:     AuthConfig{JWTSecret: "secret"},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{Auth: AuthConfig{JWTSecret: "secret"}},
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			cfg:     Config{Database: DatabaseConfig{Path: "path"}},
			wantErr: true,
		},
		{
			name: "telegram enabled without token",
			cfg: Config{
				Auth:     AuthConfig{JWTSecret: "secret"},
				Database: DatabaseConfig{Path: "path"},
				Telegram: TelegramConfig{Enabled: true},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
