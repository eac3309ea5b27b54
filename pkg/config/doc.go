// Package config loads the bootstrap orchestrator's configuration from
// layered sources — built-in defaults, an optional root config file, and
// environment variables — the way the teacher repository layers its own
// TOML/env configuration with koanf.
package config
