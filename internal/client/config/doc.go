// Package config loads runtime configuration for the fittrack client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see LoadFile), JSON or YAML chosen by extension.
//  3. Command-line flags bound by the caller, which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:3000/api",
//	  "db_path": "fittrack.db",
//	  "credential_secret": "change-me",
//	  "request_timeout": "30s",
//	  "log_level": "info",
//	  "log_backend": "slog"
//	}
//
// Keys missing from the file keep their previous values.
package config
