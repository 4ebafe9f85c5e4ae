package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	global = nil
	t.Cleanup(func() {
		viper.Reset()
		global = nil
	})
}

func TestDefaults(t *testing.T) {
	resetViper(t)

	require.NoError(t, Init(""))
	cfg := Get()

	assert.Equal(t, "http://localhost:8080", cfg.Server.URL)
	assert.Equal(t, 90, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Display.Animate)
	assert.True(t, cfg.Display.ShowDocuments)
}

func TestEnvOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("TESSERA_SERVER_URL", "http://stream.internal:9000")

	require.NoError(t, Init(""))

	assert.Equal(t, "http://stream.internal:9000", Get().Server.URL)
}

func TestGetWithoutInit(t *testing.T) {
	resetViper(t)

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestBuildSettingsPath(t *testing.T) {
	resetViper(t)
	viper.Set("config.path", "/tmp/tessera-test")

	assert.Equal(t, "/tmp/tessera-test/tessera.log", BuildSettingsPath("tessera.log"))
}
