package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigHasTextOutput(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "text", cfg.OutputMode)
	assert.False(t, cfg.PreserveComments)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hqlconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputMode: json\npreserveComments: true\nroots:\n  - vendor/hql\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputMode)
	assert.True(t, cfg.PreserveComments)
	assert.Equal(t, []string{"vendor/hql"}, cfg.Roots)
}

func TestFindConfigSearchesParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hqlconfig.yaml"), []byte("outputMode: json\n"), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".hqlconfig.yaml"), found)
}

func TestFindConfigReturnsEmptyWhenAbsent(t *testing.T) {
	found, err := FindConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, found)
}
