// Package config loads a node's YAML configuration file into a
// types.NodeConfig: plain gopkg.in/yaml.v3 unmarshalling into a tagged
// struct, no templating or remote config source.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calvindb/calvindb/pkg/types"
)

const (
	defaultBindAddr      = "127.0.0.1:7477"
	defaultMetricsAddr   = "127.0.0.1:9477"
	defaultDataDir       = "./data"
	defaultLogLevel      = "info"
	defaultShutdownGrace = 5 * time.Second
)

// Load reads and parses the YAML node configuration at path, filling in
// defaults for anything the file leaves zero-valued.
func Load(path string) (types.NodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.NodeConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return types.NodeConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals raw YAML bytes into a NodeConfig and applies defaults.
// Split out from Load so tests can exercise it without touching disk.
func Parse(data []byte) (types.NodeConfig, error) {
	var cfg types.NodeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.NodeConfig{}, err
	}
	applyDefaults(&cfg)
	return cfg, Validate(cfg)
}

func applyDefaults(cfg *types.NodeConfig) {
	if cfg.BindAddr == "" {
		cfg.BindAddr = defaultBindAddr
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = defaultMetricsAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.ShutdownGrace == 0 {
		cfg.ShutdownGrace = defaultShutdownGrace
	}
}

// Validate rejects a config missing the fields every node needs to boot.
func Validate(cfg types.NodeConfig) error {
	if cfg.NodeUUID == "" {
		return fmt.Errorf("config: node_uuid is required")
	}
	for i, p := range cfg.Peers {
		if p.UUID == "" || p.Address == "" {
			return fmt.Errorf("config: peers[%d] needs both uuid and address", i)
		}
	}
	return nil
}
