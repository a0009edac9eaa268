package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// InviteeCeiling is the provider-imposed maximum number of invitees a
// single asset may carry at once.
const InviteeCeiling = 20

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Zight    ZightConfig    `toml:"zight"`
	Sheet    SheetConfig    `toml:"sheet"`
	Browser  BrowserConfig  `toml:"browser"`
	Share    ShareConfig    `toml:"share"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
}

// ZightConfig contains Zight account credentials.
type ZightConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// SheetConfig locates the recipient spreadsheet.
type SheetConfig struct {
	URL    string `toml:"url"`
	GID    string `toml:"gid"`
	Column string `toml:"column"`
}

// BrowserConfig controls how the browser session is created.
type BrowserConfig struct {
	Headless      bool   `toml:"headless"`
	Remote        bool   `toml:"remote"`
	APIKey        string `toml:"api_key"`
	ProjectID     string `toml:"project_id"`
	ScreenshotDir string `toml:"screenshot_dir"`
}

// ShareConfig tunes the share batching behavior.
type ShareConfig struct {
	BatchSize     int `toml:"batch_size"`
	SettleDelayMS int `toml:"settle_delay_ms"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Token   string `toml:"token"`
	LogDir  string `toml:"log_dir"`
	RateRPS int    `toml:"rate_rps"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays environment variables onto the configuration. The
// original deployment of this tool was driven entirely by env vars, so
// every credential and knob stays reachable without a config file.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Zight.Username, "ZIGHT_USERNAME")
	setString(&c.Zight.Password, "ZIGHT_PASSWORD")
	setString(&c.Browser.APIKey, "BROWSERBASE_API_KEY")
	setString(&c.Browser.ProjectID, "BROWSERBASE_PROJECT_ID")
	setString(&c.Sheet.URL, "SHEET_URL")
	setString(&c.Sheet.GID, "SHEET_GID")
	setString(&c.Sheet.Column, "SHEET_COLUMN")

	if v := os.Getenv("BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Share.BatchSize = n
		}
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Share.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1", ErrInvalidConfig)
	}
	if c.Share.BatchSize > InviteeCeiling {
		return fmt.Errorf("%w: batch size %d exceeds the %d invitee ceiling", ErrInvalidConfig, c.Share.BatchSize, InviteeCeiling)
	}
	if c.Browser.Remote && (c.Browser.APIKey == "" || c.Browser.ProjectID == "") {
		return fmt.Errorf("%w: remote browser requires api_key and project_id", ErrMissingCredentials)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using
// the embedded example config. It refuses to replace an existing file;
// use WriteConfigFile to overwrite.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}
	return WriteConfigFile(path)
}

// WriteConfigFile writes the embedded example config to the specified
// path, replacing any existing file.
func WriteConfigFile(path string) error {
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
