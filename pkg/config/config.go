/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/fleetdb/pkg/blob"
)

// EnvPrefix is the prefix of environment variables that override file settings,
// e.g. FLEET_DATA_DIR or FLEET_STORAGE_S3_BUCKET
const EnvPrefix = "FLEET"

// DefaultFileName is the snapshot blob name used when none is configured
const DefaultFileName = "binaryfile.bin"

// Config represents the fleetdb configuration
type Config struct {
	DataDir         string   `yaml:"data_dir" mapstructure:"data_dir"`
	FileName        string   `yaml:"file_name" mapstructure:"file_name"`
	InitialCapacity int      `yaml:"initial_capacity" mapstructure:"initial_capacity"`
	Port            int      `yaml:"port" mapstructure:"port"`
	Bind            string   `yaml:"bind" mapstructure:"bind"`
	Security        Security `yaml:"security" mapstructure:"security"`
	Logging         Logging  `yaml:"logging" mapstructure:"logging"`
	Storage         Storage  `yaml:"storage" mapstructure:"storage"`
}

// Security contains security-related configuration
type Security struct {
	ClientAPIKey string `yaml:"client_api_key" mapstructure:"client_api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Storage selects where snapshots are written
type Storage struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	S3     S3     `yaml:"s3" mapstructure:"s3"`
}

// S3 configures the S3 snapshot target
type S3 struct {
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Region    string `yaml:"region" mapstructure:"region"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
	PathStyle bool   `yaml:"path_style" mapstructure:"path_style"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:         "./data",
		FileName:        DefaultFileName,
		InitialCapacity: 10,
		Port:            8080,
		Bind:            "127.0.0.1",
		Security: Security{
			ClientAPIKey: "auto",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Storage: Storage{
			Driver: string(blob.DriverFile),
			S3: S3{
				Region: "us-east-1",
			},
		},
	}
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// every key needs a default so AutomaticEnv can see it during Unmarshal
	d := DefaultConfig()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("file_name", d.FileName)
	v.SetDefault("initial_capacity", d.InitialCapacity)
	v.SetDefault("port", d.Port)
	v.SetDefault("bind", d.Bind)
	v.SetDefault("security.client_api_key", d.Security.ClientAPIKey)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.s3.bucket", d.Storage.S3.Bucket)
	v.SetDefault("storage.s3.region", d.Storage.S3.Region)
	v.SetDefault("storage.s3.endpoint", d.Storage.S3.Endpoint)
	v.SetDefault("storage.s3.prefix", d.Storage.S3.Prefix)
	v.SetDefault("storage.s3.path_style", d.Storage.S3.PathStyle)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &config, nil
}

// LoadConfig loads configuration from the specified path, applying FLEET_*
// environment overrides on top of the file
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return decode(v)
}

// LoadOrDefault loads configPath when it exists and otherwise falls back to
// the defaults. Environment overrides apply in both cases.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" && ConfigExists(configPath) {
		return LoadConfig(configPath)
	}
	return decode(newViper())
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	if c.FileName == "" {
		return fmt.Errorf("file_name is required")
	}
	if strings.ContainsAny(c.FileName, `/\`) || c.FileName == "." || c.FileName == ".." {
		return fmt.Errorf("file_name must be a plain file name: %q", c.FileName)
	}
	if c.InitialCapacity < 0 {
		return fmt.Errorf("initial_capacity cannot be negative: %d", c.InitialCapacity)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging level: %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown logging format: %q", c.Logging.Format)
	}

	switch blob.Driver(c.Storage.Driver) {
	case "", blob.DriverFile:
	case blob.DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	return nil
}

// BlobOptions translates the storage section into options for blob.Open
func (c *Config) BlobOptions() blob.Options {
	return blob.Options{
		Driver: blob.Driver(c.Storage.Driver),
		Dir:    c.DataDir,
		S3: blob.S3Config{
			Bucket:    c.Storage.S3.Bucket,
			Region:    c.Storage.S3.Region,
			Endpoint:  c.Storage.S3.Endpoint,
			Prefix:    c.Storage.S3.Prefix,
			PathStyle: c.Storage.S3.PathStyle,
		},
	}
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated client key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	clientAPIKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate client API key: %w", err)
	}
	config.Security.ClientAPIKey = clientAPIKey

	// Save the configuration
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./fleet.yaml"
	}

	// For Linux/macOS, use ~/.config/fleet/config.yaml
	return filepath.Join(homeDir, ".config", "fleet", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
