package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadReturnsZeroValueWhenFileMissing(t *testing.T) {
	withConfigHome(t)
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, s)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withConfigHome(t)
	s := State{LastUsedModel: "codellama", LastProjectPath: "/tmp/proj", OperationMode: "accept_edits"}
	require.NoError(t, Save(s))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadToleratesCorruptedFile(t *testing.T) {
	withConfigHome(t)
	path, err := Path()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, State{}, s)
}
