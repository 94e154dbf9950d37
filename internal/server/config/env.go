package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays AUTHKEEPER_* environment variables onto the Config.
// Variables that are not set leave the current values untouched, so the
// layering order (defaults, JSON, env, flags) is preserved.
func parseEnv(config *Config) error {
	return env.Parse(config)
}
