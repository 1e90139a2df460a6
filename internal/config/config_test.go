package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trop3n/samc/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err, "an explicitly named config file must exist")

	// With no explicit path and no samc.yaml in the working dir, defaults apply.
	t.Chdir(t.TempDir())
	cfg, err = config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.vimeo.com", cfg.VimeoBaseURL)
	assert.Equal(t, 48*time.Hour, cfg.Lookback)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.ExcludedFolders)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lookback: 72h
excluded_folders: [7, 12]
log_level: debug
report:
  base_url: https://example.com/api
  table: events
  select: [Event_Title, Event_Start_Date]
  order_by: Event_Start_Date asc
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 72*time.Hour, cfg.Lookback)
	assert.Equal(t, []int64{7, 12}, cfg.ExcludedFolders)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "events", cfg.Report.Table)
	assert.Equal(t, []string{"Event_Title", "Event_Start_Date"}, cfg.Report.Select)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lookback: 72h\nexcluded_folders: [7]\n"), 0644))

	t.Setenv("SAMC_VIMEO_TOKEN", "tok")
	t.Setenv("SAMC_LOOKBACK", "24h")
	t.Setenv("SAMC_EXCLUDED_FOLDERS", "1, 2,3")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.VimeoToken)
	assert.Equal(t, 24*time.Hour, cfg.Lookback)
	assert.Equal(t, []int64{1, 2, 3}, cfg.ExcludedFolders)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SAMC_LOOKBACK", "two days")
	_, err := config.Load("")
	assert.Error(t, err)

	t.Setenv("SAMC_LOOKBACK", "48h")
	t.Setenv("SAMC_EXCLUDED_FOLDERS", "seven")
	_, err = config.Load("")
	assert.Error(t, err)
}

func TestExcludedSet(t *testing.T) {
	cfg := config.Config{ExcludedFolders: []int64{7, 12, 7}}
	set := cfg.ExcludedSet()
	assert.Len(t, set, 2)
	_, ok := set[7]
	assert.True(t, ok)
}
