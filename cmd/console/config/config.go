package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TokenConfig declares one token to register at startup, optionally with a
// seeded balance.
type TokenConfig struct {
	Name    string `yaml:"name"`
	Balance uint64 `yaml:"balance,omitempty"`
}

// PoolConfig declares one liquidity pool to register at startup.
type PoolConfig struct {
	TokenA   string `yaml:"tokenA"`
	TokenB   string `yaml:"tokenB"`
	ReserveA uint64 `yaml:"reserveA"`
	ReserveB uint64 `yaml:"reserveB"`
}

// OpConfig is one scripted operation. Op selects which fields apply:
//   - "addLiquidity": poolA, poolB, amountA, amountB
//   - "swap":         poolA, poolB, from, to, amount
//   - "price":        poolA, poolB
//   - "balance":      from
type OpConfig struct {
	Op      string `yaml:"op"`
	PoolA   string `yaml:"poolA,omitempty"`
	PoolB   string `yaml:"poolB,omitempty"`
	From    string `yaml:"from,omitempty"`
	To      string `yaml:"to,omitempty"`
	Amount  uint64 `yaml:"amount,omitempty"`
	AmountA uint64 `yaml:"amountA,omitempty"`
	AmountB uint64 `yaml:"amountB,omitempty"`
}

// ConsoleConfig is the scenario the console executes against a fresh engine.
type ConsoleConfig struct {
	EngineID uint64        `yaml:"engineId"`
	Tokens   []TokenConfig `yaml:"tokens"`
	Pools    []PoolConfig  `yaml:"pools"`
	Ops      []OpConfig    `yaml:"ops"`
}

func (c *ConsoleConfig) validate() error {
	if len(c.Tokens) == 0 {
		return errors.New("config: at least one token is required")
	}
	for i, token := range c.Tokens {
		if token.Name == "" {
			return fmt.Errorf("config: token %d is missing a name", i)
		}
	}
	for i, pool := range c.Pools {
		if pool.TokenA == "" || pool.TokenB == "" {
			return fmt.Errorf("config: pool %d is missing a token name", i)
		}
	}
	for i, op := range c.Ops {
		switch op.Op {
		case "addLiquidity", "swap", "price", "balance":
		default:
			return fmt.Errorf("config: op %d has unknown kind %q", i, op.Op)
		}
	}
	return nil
}

// LoadConfig reads and validates a scenario file.
func LoadConfig(path string) (*ConsoleConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ConsoleConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
