package marketplace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebushidocollective/han/internal/config"
	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

func newLogger() *logging.Logger {
	return logging.New(logging.DefaultConfig())
}

func TestLocator_ResolvesFlatLayout(t *testing.T) {
	root := t.TempDir()
	pluginDir := filepath.Join(root, "eslint")
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))

	cfg := &config.Config{Marketplaces: config.Marketplaces{"community": root}}
	locator := NewLocator(cfg, newLogger())

	resolved, err := locator.Locate("eslint", "community")

	require.NoError(t, err)
	assert.Equal(t, pluginDir, resolved)
}

func TestLocator_PrefersSubRootsInOrder(t *testing.T) {
	root := t.TempDir()
	doDir := filepath.Join(root, "do", "eslint")
	hashiDir := filepath.Join(root, "hashi", "eslint")
	require.NoError(t, os.MkdirAll(doDir, 0o755))
	require.NoError(t, os.MkdirAll(hashiDir, 0o755))

	cfg := &config.Config{Marketplaces: config.Marketplaces{"community": root}}
	locator := NewLocator(cfg, newLogger())

	resolved, err := locator.Locate("eslint", "community")

	require.NoError(t, err)
	assert.Equal(t, doDir, resolved)
}

func TestLocator_UnqualifiedTriesEveryMarketplace(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	pluginDir := filepath.Join(rootB, "eslint")
	require.NoError(t, os.MkdirAll(pluginDir, 0o755))

	cfg := &config.Config{Marketplaces: config.Marketplaces{"alpha": rootA, "beta": rootB}}
	locator := NewLocator(cfg, newLogger())

	resolved, err := locator.Locate("eslint", "")

	require.NoError(t, err)
	assert.Equal(t, pluginDir, resolved)
}

func TestLocator_NotFound(t *testing.T) {
	cfg := &config.Config{Marketplaces: config.Marketplaces{"community": t.TempDir()}}
	locator := NewLocator(cfg, newLogger())

	_, err := locator.Locate("missing-plugin", "community")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.TypePluginNotFound))
}

func TestLocator_UnknownMarketplace(t *testing.T) {
	cfg := &config.Config{Marketplaces: config.Marketplaces{}}
	locator := NewLocator(cfg, newLogger())

	_, err := locator.Locate("eslint", "community")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.TypePluginNotFound))
}
