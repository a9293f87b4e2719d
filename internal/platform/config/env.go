// Package config loads process configuration from POPCITY_* environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is the shared prefix for every PopCity environment variable.
const EnvPrefix = "POPCITY_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration whose tags omit the POPCITY_ prefix.
func ParseEnvWithPrefix(target any, section string) error {
	opts := env.Options{Prefix: EnvPrefix + section}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env %s: %w", section, err)
	}
	return nil
}
