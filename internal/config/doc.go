// Package config loads and validates the TOML configuration shared by the
// broker daemons and the brokerctl CLI.
//
// Configuration resolution order: an explicit path, the BROKERD_CONFIG
// environment variable, then the default locations. Missing files are not an
// error; defaults apply. All path fields are tilde-expanded during load.
package config
