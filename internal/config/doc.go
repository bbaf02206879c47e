// Package config loads, validates, and normalizes the TOML configuration
// for the visionforge backend.
package config
