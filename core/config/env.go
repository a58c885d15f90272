package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads KEY=VALUE pairs from the given .env files without
// touching the process environment, and applies them with ApplyEnv. Later
// files win over earlier ones.
func (c *Config) LoadEnvFile(paths ...string) error {
	values, err := godotenv.Read(paths...)
	if err != nil {
		return fmt.Errorf("read env file: %w", err)
	}
	return c.ApplyEnv(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}
