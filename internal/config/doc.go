// Package config loads and validates application configuration from
// environment variables, with an optional CONF_DIR/config.toml overlay
// read first so environment variables always win.
package config
