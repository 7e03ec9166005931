package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, BackendGRPC, c.Backend)
	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, "mirror.db", c.MirrorPath)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.False(t, c.StartOffline)
	assert.Equal(t, "wedding-photos", c.S3Bucket)
	assert.Equal(t, "wedding-data", c.DocumentBucket)
	assert.Equal(t, "relational", c.MemoryFlavor)
	assert.Empty(t, c.AccessToken)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"backend":               "document",
		"mirror_path":           "/tmp/json.db",
		"online_check_interval": "10s",
	})
	os.Args = []string{"testbin", "-c", path, "-b", "memory", "-o"}

	cfg := LoadConfig()

	assert.Equal(t, BackendMemory, cfg.Backend, "flag beats json")
	assert.Equal(t, "/tmp/json.db", cfg.MirrorPath, "json beats default")
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	assert.True(t, cfg.StartOffline)
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr, "default kept")
}
