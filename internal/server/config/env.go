package config

import "github.com/caarlos0/env/v11"

// EnvPrefix is prepended to every variable name read by parseEnv.
const EnvPrefix = "MEDINVEST_"

// parseEnv overlays cfg with MEDINVEST_* environment variables. Unset
// variables leave the current value alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
