package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishannn/homesearch-go/internal/filter"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := newConfig(writeConfig(t, "api:\n  base_url: https://example.com/api\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, filter.DefaultSearch, cfg.Search.Query)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Nil(t, cfg.Search.Price)
	assert.Equal(t, "markers.json", cfg.Output)
}

func TestNewConfigSections(t *testing.T) {
	cfg, err := newConfig(writeConfig(t, `
api:
  base_url: https://example.com/api
  timeout: 5s
search:
  query: Bavaro
  sort: high_to_low
  max_pages: 2
  price:
    min: 200000
    max: 500000
  property_types: [Villa]
  more:
    max_hoa: "$500"
saved:
  debounce: 250ms
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "Bavaro", cfg.Search.Query)
	assert.Equal(t, "high_to_low", cfg.Search.Sort)
	assert.Equal(t, 2, cfg.Search.MaxPages)
	require.NotNil(t, cfg.Search.Price)
	assert.Equal(t, filter.Range{Min: 200000, Max: 500000}, *cfg.Search.Price)
	assert.Equal(t, []string{"Villa"}, cfg.Search.PropertyTypes)
	require.NotNil(t, cfg.Search.More)
	assert.Equal(t, "$500", cfg.Search.More.MaxHOA)
	assert.Equal(t, 250*time.Millisecond, cfg.Saved.Debounce)
}

func TestNewConfigEnv(t *testing.T) {
	t.Setenv("HOMESEARCH_TOKEN", "secret")
	t.Setenv("HOMESEARCH_USER_ID", "user-1")

	cfg, err := newConfig(writeConfig(t, "api:\n  base_url: https://example.com\n  token: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "user-1", cfg.API.UserID)
}

func TestNewConfigErrors(t *testing.T) {
	_, err := newConfig(writeConfig(t, "search:\n  query: x\n"))
	assert.Error(t, err)

	_, err = newConfig(writeConfig(t, "api:\n  base_url: https://example.com\nsearch:\n  sort: cheapest\n"))
	assert.Error(t, err)

	_, err = newConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
