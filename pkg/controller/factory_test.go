package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/fleetdb/pkg/config"
	"github.com/ssargent/fleetdb/pkg/logging"
)

func TestDefaultFactory_CreateController(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.InitialCapacity = 4

	c, err := NewFactory().CreateController(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 0, stats.Records)
	assert.Equal(t, 4, stats.Capacity)
	assert.Equal(t, "file", stats.Driver)
	assert.Equal(t, "binaryfile.bin", c.FileName())
}

func TestDefaultFactory_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = "s3"

	_, err := NewFactory().CreateController(context.Background(), cfg, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
