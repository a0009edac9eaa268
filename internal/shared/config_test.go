package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "zshare.db" {
			t.Errorf("expected database path zshare.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Share.BatchSize != 15 {
			t.Errorf("expected batch size 15, got %d", config.Share.BatchSize)
		}

		if !config.Browser.Headless {
			t.Error("expected headless default true")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("creating config file again should fail with ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("WriteConfigFile overwrites", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("# stale\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := WriteConfigFile(configPath); err != nil {
			t.Fatalf("failed to overwrite config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load overwritten config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Error("overwritten config should match the embedded example")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[zight]
username = "ops@example.com"
password = "secret"

[sheet]
url = "https://docs.google.com/spreadsheets/d/abc123/edit#gid=42"
gid = "42"
column = "email"

[share]
batch_size = 10
settle_delay_ms = 500

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Zight.Username != "ops@example.com" {
			t.Errorf("expected username ops@example.com, got %s", config.Zight.Username)
		}

		if config.Share.BatchSize != 10 {
			t.Errorf("expected batch size 10, got %d", config.Share.BatchSize)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("ZIGHT_USERNAME", "env@example.com")
		t.Setenv("ZIGHT_PASSWORD", "env-secret")
		t.Setenv("BATCH_SIZE", "5")
		t.Setenv("HEADLESS", "false")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Zight.Username != "env@example.com" {
			t.Errorf("expected env username, got %s", config.Zight.Username)
		}
		if config.Zight.Password != "env-secret" {
			t.Errorf("expected env password, got %s", config.Zight.Password)
		}
		if config.Share.BatchSize != 5 {
			t.Errorf("expected batch size 5 from env, got %d", config.Share.BatchSize)
		}
		if config.Browser.Headless {
			t.Error("expected headless false from env")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}

		config.Share.BatchSize = 0
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for zero batch size, got %v", err)
		}

		config.Share.BatchSize = InviteeCeiling + 1
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig above ceiling, got %v", err)
		}

		config.Share.BatchSize = InviteeCeiling
		if err := config.Validate(); err != nil {
			t.Errorf("batch size equal to ceiling should validate: %v", err)
		}

		config.Browser.Remote = true
		config.Browser.APIKey = ""
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for remote without key, got %v", err)
		}
	})
}
