// Package config loads runtime configuration for the Happy Places CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are YAML, everything else is JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "90s" or integer
// nanoseconds:
//
//	latitude: 52.52
//	longitude: 13.41
//	store: s3
//	capture_timeout: 90s
//	s3:
//	  bucket: happyplaces
//	  endpoint: http://localhost:9000
//
// This package does not read environment variables; use the file or flags.
package config
