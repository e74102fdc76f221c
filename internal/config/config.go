package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Catalog CatalogConfig `toml:"catalog"`
	Uploads UploadsConfig `toml:"uploads"`
	Mail    MailConfig    `toml:"mail"`
	Logging LoggingConfig `toml:"logging"`
}

// StoreConfig contains persistent store configuration
type StoreConfig struct {
	Path            string `toml:"path"`
	CollabStorePath string `toml:"collab_store_path"`
}

// CatalogConfig contains beat catalog and sample library configuration
type CatalogConfig struct {
	SamplesDir       string   `toml:"samples_dir"`
	DownloadsDir     string   `toml:"downloads_dir"`
	SupportedFormats []string `toml:"supported_formats"`
	WatchForChanges  bool     `toml:"watch_for_changes"`
}

// UploadsConfig contains uploaded-track configuration
type UploadsConfig struct {
	BlobDir       string `toml:"blob_dir"`
	MaxFileSizeMB int64  `toml:"max_file_size_mb"`
}

// MailConfig contains collaboration email fan-out configuration. The SMTP
// password is taken from the MAIL_PASSWORD environment variable, never from
// this file.
type MailConfig struct {
	Enabled      bool   `toml:"enabled"`
	SMTPHost     string `toml:"smtp_host"`
	SMTPPort     string `toml:"smtp_port"`
	Username     string `toml:"username"`
	SenderEmail  string `toml:"sender_email"`
	AdminEmail   string `toml:"admin_email"`
	DashboardURL string `toml:"dashboard_url"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:            "./musiccrib.db",
			CollabStorePath: "./collaborations.db",
		},
		Catalog: CatalogConfig{
			SamplesDir:       "./samples",
			DownloadsDir:     "./downloads",
			SupportedFormats: []string{".mp3", ".flac", ".wav", ".ogg"},
			WatchForChanges:  true,
		},
		Uploads: UploadsConfig{
			BlobDir:       "./uploads",
			MaxFileSizeMB: 50,
		},
		Mail: MailConfig{
			Enabled:      false,
			SMTPHost:     "smtp.gmail.com",
			SMTPPort:     "587",
			Username:     "",
			SenderEmail:  "",
			AdminEmail:   "",
			DashboardURL: "https://musiccrib.example/dashboard.html",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create it with defaults
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Printf("Created default configuration file at: %s\n", configPath)
		return cfg, nil
	}

	// Load from file
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create or open file
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Write header comment
	header := `# Music Crib Storefront Configuration
# This file contains all configuration options for the Music Crib storefront.
# Edit the values below to customize your setup.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	// Encode configuration to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate store config
	if c.Store.Path == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	if c.Store.CollabStorePath == "" {
		return fmt.Errorf("collaboration store path cannot be empty")
	}

	// Validate catalog config
	if c.Catalog.SamplesDir == "" {
		return fmt.Errorf("samples directory cannot be empty")
	}
	if len(c.Catalog.SupportedFormats) == 0 {
		return fmt.Errorf("at least one supported audio format must be specified")
	}

	// Validate uploads config
	if c.Uploads.BlobDir == "" {
		return fmt.Errorf("upload blob directory cannot be empty")
	}
	if c.Uploads.MaxFileSizeMB < 1 {
		return fmt.Errorf("max upload size must be at least 1 MB")
	}

	// Validate mail config
	if c.Mail.Enabled {
		if c.Mail.SMTPHost == "" || c.Mail.SMTPPort == "" {
			return fmt.Errorf("smtp host and port are required when mail is enabled")
		}
		if c.Mail.SenderEmail == "" || c.Mail.AdminEmail == "" {
			return fmt.Errorf("sender and admin email are required when mail is enabled")
		}
	}

	// Validate logging config
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}

// IsFormatSupported checks if an audio file extension is supported
func (c *Config) IsFormatSupported(ext string) bool {
	for _, supported := range c.Catalog.SupportedFormats {
		if supported == ext {
			return true
		}
	}
	return false
}
