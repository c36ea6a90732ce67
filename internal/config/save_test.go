package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveOutputFormat_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveOutputFormat(path, FormatJSON))

	got := readYAML(t, path)
	require.Equal(t, map[string]any{"format": "json"}, got["output"])
}

func TestSaveOutputFormat_PreservesOtherKeysAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveOutputFormat(path, FormatMarkdown))

	got := readYAML(t, path)
	output := got["output"].(map[string]any)
	require.Equal(t, "markdown", output["format"])
	require.Equal(t, "dark", output["markdown_style"])
	require.Equal(t, map[string]any{"debounce": "300ms"}, got["watch"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# formdom configuration")
}

func TestSaveOutputFormat_RejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Error(t, SaveOutputFormat(path, "xml"))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestSaveStorePath_CreatesNestedMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o600))

	require.NoError(t, SaveStorePath(path, "/data/formdom.db"))

	got := readYAML(t, path)
	require.Equal(t, true, got["debug"])
	require.Equal(t, map[string]any{"path": "/data/formdom.db"}, got["store"])
}
