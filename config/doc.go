// Package config holds the runtime configuration surface: environment
// settings for the process and the run manifest listing which catalog
// sources to ingest.
package config
