package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/bufferpool"
)

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
app_name: loader
bind:
  max_workers: 3
  var_slot_max: 4000
spool:
  compression: lz4
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	require.Equal(t, "loader", cfg.AppName)
	require.Equal(t, 3, cfg.Bind.MaxWorkers)
	require.Equal(t, 4000, cfg.Bind.VarSlotMax)
	require.Equal(t, bind.DefaultVarSlotHint, cfg.Bind.VarSlotHint)
	require.Equal(t, "lz4", cfg.Spool.Compression)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel())
	require.Len(t, cfg.BindOptions(nil), 3)
}

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("NOVABIND_BIND_MAX_WORKERS", "9")

	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, "novabind", cfg.AppName)
	require.Equal(t, 9, cfg.Bind.MaxWorkers)
	require.Equal(t, bufferpool.DefaultCapacity, cfg.Bind.PoolCapacity)
	require.Equal(t, "zstd", cfg.Spool.Compression)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
