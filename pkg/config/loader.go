package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/monobuild/pkg/installer"
)

const envPrefix = "MONOBUILD_"

// configFileNames are tried, in order, at the repository root.
var configFileNames = []string{".monobuildrc.toml", "monobuild.toml"}

// Load builds a BootstrapConfig for the repository at rootDir: built-in
// defaults, overridden by a root config file if one exists, overridden by
// MONOBUILD_-prefixed environment variables.
func Load(rootDir string) (*BootstrapConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	for _, name := range configFileNames {
		path := filepath.Join(rootDir, name)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config from %s: %w", path, err)
			}
			break
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	var cfg BootstrapConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	if err := allocateMutexIfNeeded(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"npm_client":  d.NPMClient,
		"concurrency": d.Concurrency,
	}
}

// allocateMutexIfNeeded mirrors the external-interfaces rule: a client
// that needs network-port coordination (yarn) and has no mutex configured
// gets a freshly allocated local TCP port.
func allocateMutexIfNeeded(cfg *BootstrapConfig) error {
	if cfg.NPMClient != "yarn" || cfg.Mutex != "" {
		return nil
	}
	port, err := installer.AllocateMutexPort()
	if err != nil {
		return err
	}
	cfg.Mutex = fmt.Sprintf("network:%d", port)
	return nil
}
