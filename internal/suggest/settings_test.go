package suggest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhanuIITMandi/SprintSync/internal/config"
)

func TestSettingsSourceEnvOnly(t *testing.T) {
	source := NewSettingsSource(config.AIEnv{
		APIKey:  "env-key",
		BaseURL: "https://api.example.com/v1",
		Model:   "env-model",
	})

	got := source.Current()
	assert.Equal(t, "env-key", got.APIKey)
	assert.Equal(t, "https://api.example.com/v1", got.BaseURL)
	assert.Equal(t, "env-model", got.Model)
	assert.False(t, got.ForceStub)
}

func TestSettingsSourceFileOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ai.yaml")
	require.NoError(t, os.WriteFile(file, []byte("force_stub: true\nmodel: file-model\n"), 0o644))

	source := NewSettingsSource(config.AIEnv{
		APIKey:       "env-key",
		Model:        "env-model",
		SettingsFile: file,
	})

	got := source.Current()
	assert.True(t, got.ForceStub)
	assert.Equal(t, "file-model", got.Model)
	// Fields the file does not mention keep their environment values.
	assert.Equal(t, "env-key", got.APIKey)
}

func TestSettingsSourceMissingFileFallsBackToEnv(t *testing.T) {
	source := NewSettingsSource(config.AIEnv{
		APIKey:       "env-key",
		SettingsFile: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
	})

	assert.Equal(t, "env-key", source.Current().APIKey)
}

func TestSettingsSourceReloadPicksUpChanges(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ai.yaml")
	require.NoError(t, os.WriteFile(file, []byte("force_stub: false\n"), 0o644))

	source := NewSettingsSource(config.AIEnv{APIKey: "env-key", SettingsFile: file})
	assert.False(t, source.Current().ForceStub)

	require.NoError(t, os.WriteFile(file, []byte("force_stub: true\n"), 0o644))
	source.reload()
	assert.True(t, source.Current().ForceStub)
}

func TestSettingsSourceBadFileKeepsPreviousSettings(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ai.yaml")
	require.NoError(t, os.WriteFile(file, []byte("model: good-model\n"), 0o644))

	source := NewSettingsSource(config.AIEnv{SettingsFile: file})
	assert.Equal(t, "good-model", source.Current().Model)

	require.NoError(t, os.WriteFile(file, []byte(":\tnot yaml ["), 0o644))
	source.reload()
	assert.Equal(t, "good-model", source.Current().Model)
}
