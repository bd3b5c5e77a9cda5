// Package config loads the ambient tunables that are not part of any
// pool's on-chain state but govern how this module's defaults and
// bootstrap parameters behave in a given deployment (per-pool-kind
// defaults, the reward engine's bootstrap schedule). Grounded on the
// teacher's config.yml convention (rrrliu-osmosis ships its own chain
// config.yml at the repo root) generalized from chain-node settings onto
// this module's own tunables, loaded with gopkg.in/yaml.v2 the same way.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/dexter-zone/dexter-core/dexerrors"
)

// WeightedPoolDefaults mirrors the teacher's own balancer pool defaults
// (x/gamm genesis params): the swap fee and exit fee new pools of this
// kind start with unless the creator overrides them.
type WeightedPoolDefaults struct {
	SwapFeeBps uint32 `yaml:"swap_fee_bps"`
	ExitFeeBps uint32 `yaml:"exit_fee_bps"`
}

// StablePoolDefaults mirrors spec §3's StableParams defaults.
type StablePoolDefaults struct {
	SwapFeeBps uint32 `yaml:"swap_fee_bps"`
	ExitFeeBps uint32 `yaml:"exit_fee_bps"`
	InitialAmp int64  `yaml:"initial_amp"` // already scaled by amp.Precision
}

// RewardBootstrap mirrors spec §4.9's GlobalReward initialization: the
// emission rate and schedule a freshly deployed reward engine starts
// with, before any governance-set_tokens_per_block call overrides it.
type RewardBootstrap struct {
	TokensPerBlock       string  `yaml:"tokens_per_block"` // decimal string, parsed by fixedpoint.FromString
	TotalAllocationPoint int64   `yaml:"total_allocation_point"`
	EmissionMultiplier   float64 `yaml:"emission_multiplier"` // SUPPLEMENTED FEATURES #2
}

// Config is the top-level ambient configuration document.
type Config struct {
	WeightedPool WeightedPoolDefaults `yaml:"weighted_pool"`
	StablePool   StablePoolDefaults   `yaml:"stable_pool"`
	Reward       RewardBootstrap      `yaml:"reward"`
}

// Default returns the configuration this module ships with when no
// override file is present, mirroring values used throughout spec §8's
// scenario fixtures.
func Default() Config {
	return Config{
		WeightedPool: WeightedPoolDefaults{
			SwapFeeBps: 30,
			ExitFeeBps: 0,
		},
		StablePool: StablePoolDefaults{
			SwapFeeBps: 10,
			ExitFeeBps: 0,
			InitialAmp: 100 * 100, // amp.Precision
		},
		Reward: RewardBootstrap{
			TokensPerBlock:       "1.0",
			TotalAllocationPoint: 0,
			EmissionMultiplier:   1.0,
		},
	}
}

// Load reads and parses a YAML config file at path, falling back to
// Default for any zero-valued section the file omits.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the same fee-bps bound feemodel.Config.Validate does,
// plus basic sanity on the reward bootstrap fields.
func (c Config) Validate() error {
	const feePrecision = 10_000
	if c.WeightedPool.SwapFeeBps > feePrecision || c.WeightedPool.ExitFeeBps > feePrecision {
		return dexerrors.ErrInvalidScalingFactor
	}
	if c.StablePool.SwapFeeBps > feePrecision || c.StablePool.ExitFeeBps > feePrecision {
		return dexerrors.ErrInvalidScalingFactor
	}
	if c.StablePool.InitialAmp <= 0 {
		return dexerrors.ErrInvalidAmp
	}
	if c.Reward.EmissionMultiplier < 0 {
		return dexerrors.ErrInvalidScalingFactor
	}
	return nil
}
