package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment variables read by Load.
// Fields tagged with an explicit name also accept the bare name,
// e.g. NOTEKEEP_SESSION_JWT_SECRET or JWT_SECRET. Untagged fields only use
// the prefixed form, e.g. NOTEKEEP_SECURITY_BCRYPT_COST.
const EnvPrefix = "NOTEKEEP"

// Load builds a Config from defaults overlaid with environment variables.
// Named dotenv files must exist; with no names an optional ./.env is read.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
