// Package config loads, normalizes, and validates the TOML configuration for
// prodid. Paths are tilde-expanded, secrets can arrive via environment or a
// .env file, and a sample config is embedded for `prodid config init`.
package config
