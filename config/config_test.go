package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexter-zone/dexter-core/config"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	contents := "weighted_pool:\n  swap_fee_bps: 50\n  exit_fee_bps: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(50), cfg.WeightedPool.SwapFeeBps)
	require.Equal(t, uint32(5), cfg.WeightedPool.ExitFeeBps)
	// Untouched section keeps its Default() value.
	require.Equal(t, int64(100*100), cfg.StablePool.InitialAmp)
}

func TestValidateRejectsFeeAboveOneHundredPercent(t *testing.T) {
	cfg := config.Default()
	cfg.WeightedPool.SwapFeeBps = 20_000
	require.Error(t, cfg.Validate())
}
