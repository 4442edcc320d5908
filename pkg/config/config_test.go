package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/fleetdb/pkg/blob"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, "binaryfile.bin", config.FileName)
	assert.Equal(t, 10, config.InitialCapacity)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "auto", config.Security.ClientAPIKey)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Equal(t, "file", config.Storage.Driver)
	assert.NoError(t, config.Validate())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		// Verify it's valid hex
		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func sampleConfig() *Config {
	return &Config{
		DataDir:         "/custom/data",
		FileName:        "fleet.bin",
		InitialCapacity: 32,
		Port:            9000,
		Bind:            "0.0.0.0",
		Security: Security{
			ClientAPIKey: "test-client-api-key",
		},
		Logging: Logging{
			Level:  "debug",
			Format: "json",
		},
		Storage: Storage{
			Driver: "s3",
			S3: S3{
				Bucket:    "fleet-snapshots",
				Region:    "eu-west-1",
				Endpoint:  "http://localhost:9000",
				Prefix:    "prod/",
				PathStyle: true,
			},
		},
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := sampleConfig()

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing keys fall back to defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(configPath, []byte("port: 9100\n"), 0600)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9100, loadedConfig.Port)
		assert.Equal(t, "binaryfile.bin", loadedConfig.FileName)
		assert.Equal(t, 10, loadedConfig.InitialCapacity)
		assert.Equal(t, "file", loadedConfig.Storage.Driver)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, SaveConfig(sampleConfig(), configPath))

		t.Setenv("FLEET_DATA_DIR", "/env/data")
		t.Setenv("FLEET_STORAGE_S3_BUCKET", "env-bucket")
		t.Setenv("FLEET_STORAGE_S3_PATH_STYLE", "false")
		t.Setenv("FLEET_PORT", "7070")

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "/env/data", loadedConfig.DataDir)
		assert.Equal(t, "env-bucket", loadedConfig.Storage.S3.Bucket)
		assert.False(t, loadedConfig.Storage.S3.PathStyle)
		assert.Equal(t, 7070, loadedConfig.Port)
		assert.Equal(t, "fleet.bin", loadedConfig.FileName)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		loadedConfig, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), loadedConfig)
	})

	t.Run("empty path uses defaults plus env", func(t *testing.T) {
		t.Setenv("FLEET_FILE_NAME", "other.bin")

		loadedConfig, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, "other.bin", loadedConfig.FileName)
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, SaveConfig(sampleConfig(), configPath))

		loadedConfig, err := LoadOrDefault(configPath)
		require.NoError(t, err)
		assert.Equal(t, sampleConfig(), loadedConfig)
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	// Verify file exists
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Verify content
	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	dataDir := "/custom/data/dir"

	config, err := BootstrapConfig(configPath, dataDir)
	require.NoError(t, err)

	// Verify config values
	assert.Equal(t, dataDir, config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "info", config.Logging.Level)

	// Verify the client key is generated and valid hex
	assert.NotEqual(t, "auto", config.Security.ClientAPIKey)
	_, err = hex.DecodeString(config.Security.ClientAPIKey)
	assert.NoError(t, err)

	// Verify file was created
	assert.True(t, ConfigExists(configPath))

	// Verify we can load it back
	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty file name", func(c *Config) { c.FileName = "" }, "file_name is required"},
		{"file name with path", func(c *Config) { c.FileName = "../x.bin" }, "plain file name"},
		{"negative capacity", func(c *Config) { c.InitialCapacity = -1 }, "initial_capacity"},
		{"zero capacity allowed", func(c *Config) { c.InitialCapacity = 0 }, ""},
		{"port zero", func(c *Config) { c.Port = 0 }, "port out of range"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port out of range"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "unknown logging level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "unknown logging format"},
		{"bad driver", func(c *Config) { c.Storage.Driver = "ftp" }, "unknown storage driver"},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = "s3" }, "bucket is required"},
		{"s3 with bucket", func(c *Config) {
			c.Storage.Driver = "s3"
			c.Storage.S3.Bucket = "b"
		}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)

			err := config.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBlobOptions(t *testing.T) {
	opts := sampleConfig().BlobOptions()

	assert.Equal(t, blob.DriverS3, opts.Driver)
	assert.Equal(t, "/custom/data", opts.Dir)
	assert.Equal(t, blob.S3Config{
		Bucket:    "fleet-snapshots",
		Region:    "eu-west-1",
		Endpoint:  "http://localhost:9000",
		Prefix:    "prod/",
		PathStyle: true,
	}, opts.S3)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "fleet")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	// Create a file
	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := sampleConfig()

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "client_api_key: test-client-api-key")
	assert.Contains(t, string(data), "path_style: true")

	var unmarshalled Config
	err = yaml.Unmarshal(data, &unmarshalled)
	require.NoError(t, err)

	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root; directory creation cannot fail")
	}
	config := DefaultConfig()

	// Try to save to a directory that can't be created
	invalidPath := "/invalid/path/that/cannot/be/created/config.yaml"

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
