// Package config loads, validates, and normalizes barberq configuration
// from TOML files with environment overrides.
package config
