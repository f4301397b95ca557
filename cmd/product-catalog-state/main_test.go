package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/product-catalog-state/internal/backend"
	"github.com/fairyhunter13/product-catalog-state/internal/client"
	"github.com/fairyhunter13/product-catalog-state/internal/config"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, serviceName+" dev", strings.TrimSpace(out.String()))
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_INITIAL_SELECTION=5\n"), 0o600))
	t.Setenv("CATALOG_INITIAL_SELECTION", "")
	_ = os.Unsetenv("CATALOG_INITIAL_SELECTION")

	flagEnvFile, flagAddr = path, ":9999"
	t.Cleanup(func() { flagEnvFile, flagAddr = ".env", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.InitialSelection)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoadConfigMissingEnvFileIsFine(t *testing.T) {
	flagEnvFile = filepath.Join(t.TempDir(), "absent.env")
	t.Cleanup(func() { flagEnvFile = ".env" })
	_, err := loadConfig()
	assert.NoError(t, err)
}

func TestNewSourcePicksBackend(t *testing.T) {
	src, err := newSource(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &backend.Store{}, src)

	src, err = newSource(&config.Config{SourceURL: "http://localhost:8081/api"})
	require.NoError(t, err)
	assert.IsType(t, &client.Client{}, src)
}
