package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Auth.AgentKey == "" {
		return fmt.Errorf("auth.agent_key is required")
	}
	if c.Auth.Enabled && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters when auth is enabled (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Compaction.validate(); err != nil {
		return fmt.Errorf("compaction: %w", err)
	}

	if c.Scope.OrgEnabled && c.Scope.DefaultOrg == "" {
		return fmt.Errorf("scope.default_org is required when org_enabled is true")
	}

	if c.RateLimit.Enabled && c.RateLimit.MaxPerMinute <= 0 {
		return fmt.Errorf("rate_limit.max_per_minute must be > 0 (got %d)", c.RateLimit.MaxPerMinute)
	}

	return nil
}

func (c *CompactionConfig) validate() error {
	if c.GapMinutes <= 0 {
		return fmt.Errorf("gap_minutes must be > 0 (got %d)", c.GapMinutes)
	}
	if c.MinBlockMinutes <= 0 {
		return fmt.Errorf("min_block_minutes must be > 0 (got %d)", c.MinBlockMinutes)
	}
	if c.GranularityMinutes <= 0 {
		return fmt.Errorf("granularity_minutes must be > 0 (got %d)", c.GranularityMinutes)
	}
	// Clamping to the minimum must not break granularity alignment.
	if c.MinBlockMinutes%c.GranularityMinutes != 0 {
		return fmt.Errorf("min_block_minutes must be a multiple of granularity_minutes (got %d and %d)", c.MinBlockMinutes, c.GranularityMinutes)
	}

	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	c.Location = loc

	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
