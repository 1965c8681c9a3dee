// Package config loads the cursorstream.json configuration file used by
// the CLI. All fields are optional; flags override file values and missing
// values take compiled-in defaults.
package config
