// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides typed
// settings to the rest of the application while keeping their sources out
// of business logic.
package config
