// Package config loads the YAML client configuration consumed by the
// command line tools.
package config
