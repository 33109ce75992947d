package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreUsedWhenNoFilesPresent(t *testing.T) {
	project := t.TempDir()
	t.Setenv("PAIRMAP_MODEL_NAME", "")
	os.Unsetenv("PAIRMAP_MODEL_NAME")

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, Defaults().Model.Name, cfg.Model.Name)
	assert.Equal(t, "normal", cfg.DefaultOperationMode)
}

func TestProjectLocalFileOverridesDefaults(t *testing.T) {
	project := t.TempDir()
	configDir := filepath.Join(project, ".config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"model:\n  name: project-model\n  temperature: 0.9\n"), 0o644))

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "project-model", cfg.Model.Name)
	assert.Equal(t, 0.9, cfg.Model.Temperature)
}

func TestEnvVarsOverrideFileLayers(t *testing.T) {
	project := t.TempDir()
	configDir := filepath.Join(project, ".config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"model:\n  name: project-model\n"), 0o644))

	t.Setenv("PAIRMAP_MODEL_NAME", "env-model")

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Model.Name)
}

func TestUnknownKeysInFileAreIgnored(t *testing.T) {
	project := t.TempDir()
	configDir := filepath.Join(project, ".config")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"model:\n  name: x\nsome_future_key: 42\n"), 0o644))

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Model.Name)
}

func TestMissingFilesAreNotAnError(t *testing.T) {
	project := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := Load(project)
	require.NoError(t, err)
}

func TestEnvBoolOverride(t *testing.T) {
	project := t.TempDir()
	t.Setenv("PAIRMAP_AUTO_COMMIT_ON_ACCEPT", "true")

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.True(t, cfg.AutoCommitOnAccept)
}
