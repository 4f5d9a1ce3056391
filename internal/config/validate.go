package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be between %d and %d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.Editor.AutosaveDelay <= 0 {
		return fmt.Errorf("editor.autosave_delay must be > 0 (got %v)", c.Editor.AutosaveDelay)
	}
	if c.Editor.SessionTTL <= 0 {
		return fmt.Errorf("editor.session_ttl must be > 0 (got %v)", c.Editor.SessionTTL)
	}

	if c.Uploads.MaxSizeBytes <= 0 {
		return fmt.Errorf("uploads.max_size_bytes must be > 0 (got %d)", c.Uploads.MaxSizeBytes)
	}

	return nil
}
