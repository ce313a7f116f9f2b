package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flexPlan/internal/hs"
	"flexPlan/internal/sa"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, hs.DefaultConfig(), cfg.HS)
	require.Equal(t, 10, cfg.HS.MemorySize)
	require.Equal(t, 10000, cfg.HS.Iterations)
}

func TestParse_PartialOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
hs:
  memory_size: 20
sa:
  neighborhood: insert
bench:
  runs: 5
  per_run_timeout: 2s
log:
  level: debug
  format: json
`))
	require.NoError(t, err)
	require.Equal(t, 20, cfg.HS.MemorySize)
	require.Equal(t, 10000, cfg.HS.Iterations)
	require.Equal(t, sa.NeighborhoodInsert, cfg.SA.Neighborhood)
	require.Equal(t, sa.DefaultConfig().Alpha, cfg.SA.Alpha)
	require.Equal(t, 5, cfg.Bench.Runs)
	require.Equal(t, 2*time.Second, cfg.Bench.PerRunTimeout)
	require.Equal(t, int64(1000), cfg.Bench.BaseSeed)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("hs:\n  memory_size: 0\n"))
	require.ErrorContains(t, err, "hs:")

	_, err = Parse([]byte("unknown_section: 1\n"))
	require.Error(t, err)

	_, err = Parse([]byte("log:\n  level: loud\n"))
	require.Error(t, err)

	_, err = Parse([]byte("bench:\n  runs: -1\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flexplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hs:\n  iterations: 50\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.HS.Iterations)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
