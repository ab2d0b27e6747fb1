package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays VOCAB_* environment variables onto config. Variables
// that are not set leave the current value in place. A malformed value
// (e.g. VOCAB_ACCESS_TOKEN_TTL=soon) panics.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
