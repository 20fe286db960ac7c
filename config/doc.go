// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A .env file, when present, is loaded into the environment first and a small
// set of variables (PORT, STOPS_FILE, LOG_LEVEL, FEED_TIMEOUT_SECONDS) override
// the file.
package config
